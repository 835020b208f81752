package shared

import (
	"context"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx hands out repositories bound to the running transaction.
type Tx interface {
	Reservations() ReservationRepository
	Users() UserRepository
}

// ConflictFinder returns ids of confirmed reservations of roomID overlapping slot, ordered by start time.
// exclude is skipped when not uuid.Nil.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error)
}

type ReservationRepository interface {
	ConflictFinder
	// LockRoom serializes writers of the same room until the transaction ends.
	LockRoom(ctx context.Context, roomID reservation.RoomID) error
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	UpdateStatus(ctx context.Context, res *reservation.Reservation) error
	UpdateSlot(ctx context.Context, res *reservation.Reservation) error
	DeleteByRoom(ctx context.Context, roomID reservation.RoomID) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
}
