package reservation

import (
	"errors"
	"time"

	"room-booking/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid reservation status transition")
	ErrNotOwner          = errors.New("reservation is owned by another user")
)

// Actor is the authenticated caller acting on a reservation.
type Actor struct {
	UserID uuid.UUID
	Role   user.Role
}

type Reservation struct {
	id        uuid.UUID
	roomID    RoomID
	userID    uuid.UUID
	timeSlot  TimeSlot
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewReservation(roomID RoomID, userID uuid.UUID, slot TimeSlot, now time.Time) *Reservation {
	return &Reservation{
		id:        uuid.New(),
		roomID:    roomID,
		userID:    userID,
		timeSlot:  slot,
		status:    StatusRequested,
		createdAt: now,
		updatedAt: now,
	}
}

func ReconstructReservation(
	id uuid.UUID,
	roomID RoomID,
	userID uuid.UUID,
	timeSlot TimeSlot,
	status Status,
	createdAt, updatedAt time.Time,
) *Reservation {
	return &Reservation{
		id:        id,
		roomID:    roomID,
		userID:    userID,
		timeSlot:  timeSlot,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Reservation) transition(next Status, now time.Time) error {
	if !r.status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	r.status = next
	r.updatedAt = now
	return nil
}

// Confirm is called once the availability check passed under the room lock.
func (r *Reservation) Confirm(now time.Time) error {
	return r.transition(StatusConfirmed, now)
}

func (r *Reservation) Cancel(now time.Time) error {
	return r.transition(StatusCancelled, now)
}

func (r *Reservation) MarkCascadeDeleted(now time.Time) error {
	return r.transition(StatusCascadeDeleted, now)
}

func (r *Reservation) Reschedule(slot TimeSlot, now time.Time) error {
	if r.status != StatusConfirmed {
		return ErrInvalidTransition
	}
	r.timeSlot = slot
	r.updatedAt = now
	return nil
}

// AuthorizeActor allows the owner and admins.
func (r *Reservation) AuthorizeActor(actor Actor) error {
	if actor.Role.IsAdmin() || (actor.UserID != uuid.Nil && actor.UserID == r.userID) {
		return nil
	}
	return ErrNotOwner
}

func (r *Reservation) IsActive() bool {
	return r.status == StatusConfirmed
}

func (r *Reservation) ID() uuid.UUID        { return r.id }
func (r *Reservation) RoomID() RoomID       { return r.roomID }
func (r *Reservation) UserID() uuid.UUID    { return r.userID }
func (r *Reservation) TimeSlot() TimeSlot   { return r.timeSlot }
func (r *Reservation) Status() Status       { return r.status }
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }
