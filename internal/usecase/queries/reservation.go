package queries

import (
	"context"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type ReservationQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actor reservation.Actor) (*ReservationView, error)
	ListForRoom(ctx context.Context, roomID int64) ([]*ReservationView, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
	Availability(ctx context.Context, roomID int64, start, end time.Time) (*AvailabilityView, error)
}

type ReservationReadStore interface {
	shared.ConflictFinder
	FindByID(ctx context.Context, id uuid.UUID) (*ReservationView, error)
	ListByRoom(ctx context.Context, roomID reservation.RoomID) ([]*ReservationView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
	checker   *availability.Checker
}

func NewReservationQueries(readStore ReservationReadStore, checker *availability.Checker) ReservationQueries {
	return &reservationQueriesImpl{
		readStore: readStore,
		checker:   checker,
	}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor reservation.Actor) (*ReservationView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, shared.ErrReservationNotFound
		}
		return nil, err
	}

	if !actor.Role.IsAdmin() && view.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return view, nil
}

func (q *reservationQueriesImpl) ListForRoom(ctx context.Context, roomID int64) ([]*ReservationView, error) {
	id, err := reservation.NewRoomID(roomID)
	if err != nil {
		return nil, shared.MapDomainErr(err)
	}
	return q.readStore.ListByRoom(ctx, id)
}

func (q *reservationQueriesImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error) {
	return q.readStore.ListByUser(ctx, userID)
}

func (q *reservationQueriesImpl) Availability(ctx context.Context, roomID int64, start, end time.Time) (*AvailabilityView, error) {
	id, err := reservation.NewRoomID(roomID)
	if err != nil {
		return nil, shared.MapDomainErr(err)
	}
	slot, err := availability.NewSlot(start, end)
	if err != nil {
		return nil, err
	}

	result, err := q.checker.Check(ctx, q.readStore, id, slot, uuid.Nil)
	if err != nil {
		return nil, err
	}

	return &AvailabilityView{
		RoomID:    result.RoomID.Int64(),
		Available: result.Available,
		Conflicts: result.Conflicts,
	}, nil
}
