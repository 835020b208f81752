package commands

import (
	"context"
	"log/slog"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateReservationInput struct {
	RoomID    int64
	UserID    uuid.UUID
	StartTime time.Time
	EndTime   time.Time
}

type ReservationCommands interface {
	Create(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID, actor reservation.Actor) (*reservation.Reservation, error)
	Reschedule(ctx context.Context, id uuid.UUID, actor reservation.Actor, start, end time.Time) (*reservation.Reservation, error)
}

type reservationCommandsImpl struct {
	uow     shared.UnitOfWork
	checker *availability.Checker
	clock   clock.Clock
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	checker *availability.Checker,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:     uow,
		checker: checker,
		clock:   clk,
		metrics: m,
		logger:  logger,
	}
}

func (r *reservationCommandsImpl) Create(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	roomID, err := reservation.NewRoomID(input.RoomID)
	if err != nil {
		return nil, shared.MapDomainErr(err)
	}
	slot, err := availability.NewSlot(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	// Room verification talks to another service, keep it out of the transaction.
	if err := r.checker.VerifyRoom(ctx, roomID); err != nil {
		return nil, err
	}

	var created *reservation.Reservation
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()
		if err := repo.LockRoom(ctx, roomID); err != nil {
			return err
		}

		conflicts, err := repo.FindConflicts(ctx, roomID, slot, uuid.Nil)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return errs.Wrapf(shared.ErrReservationConflict, "room %d overlaps %d reservation(s)", roomID, len(conflicts))
		}

		now := r.clock.Now()
		res := reservation.NewReservation(roomID, input.UserID, slot, now)
		if err := res.Confirm(now); err != nil {
			return shared.MapDomainErr(err)
		}
		if err := repo.Create(ctx, res); err != nil {
			return err
		}
		created = res
		return nil
	})
	if err != nil {
		return nil, r.translate(err)
	}

	r.metrics.ReservationsCreated.Inc()
	r.logger.Info("reservation created",
		slog.String("reservation_id", created.ID().String()),
		slog.Int64("room_id", roomID.Int64()),
		slog.String("user_id", input.UserID.String()))
	return created, nil
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, actor reservation.Actor) (*reservation.Reservation, error) {
	var cancelled *reservation.Reservation
	err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()
		res, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := res.AuthorizeActor(actor); err != nil {
			return shared.MapDomainErr(err)
		}
		if err := res.Cancel(r.clock.Now()); err != nil {
			return shared.MapDomainErr(err)
		}
		if err := repo.UpdateStatus(ctx, res); err != nil {
			return err
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, r.translate(err)
	}

	r.metrics.ReservationsCancelled.Inc()
	r.logger.Info("reservation cancelled",
		slog.String("reservation_id", id.String()),
		slog.String("actor_id", actor.UserID.String()))
	return cancelled, nil
}

func (r *reservationCommandsImpl) Reschedule(ctx context.Context, id uuid.UUID, actor reservation.Actor, start, end time.Time) (*reservation.Reservation, error) {
	slot, err := availability.NewSlot(start, end)
	if err != nil {
		return nil, err
	}

	var moved *reservation.Reservation
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()
		res, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := res.AuthorizeActor(actor); err != nil {
			return shared.MapDomainErr(err)
		}
		if !res.IsActive() {
			return shared.MapDomainErr(reservation.ErrInvalidTransition)
		}

		if err := repo.LockRoom(ctx, res.RoomID()); err != nil {
			return err
		}
		conflicts, err := repo.FindConflicts(ctx, res.RoomID(), slot, res.ID())
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return errs.Wrapf(shared.ErrReservationConflict, "room %d overlaps %d reservation(s)", res.RoomID(), len(conflicts))
		}

		if err := res.Reschedule(slot, r.clock.Now()); err != nil {
			return shared.MapDomainErr(err)
		}
		if err := repo.UpdateSlot(ctx, res); err != nil {
			return err
		}
		moved = res
		return nil
	})
	if err != nil {
		return nil, r.translate(err)
	}

	r.logger.Info("reservation rescheduled",
		slog.String("reservation_id", id.String()),
		slog.Time("start_time", slot.Start()),
		slog.Time("end_time", slot.End()))
	return moved, nil
}

// translate maps repository failures onto usecase sentinels; usecase errors pass through.
func (r *reservationCommandsImpl) translate(err error) error {
	switch {
	case errs.Is(err, shared.ErrReservationConflict), infra.IsKind(err, infra.KindConflict):
		r.metrics.ReservationConflicts.Inc()
		if errs.Is(err, shared.ErrReservationConflict) {
			return err
		}
		return errs.Mark(err, shared.ErrReservationConflict)
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, shared.ErrReservationNotFound)
	default:
		return err
	}
}
