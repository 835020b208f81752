package commands

import (
	"context"
	"log/slog"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/shared"
)

// RoomEventCommands applies lifecycle events of rooms owned by the room directory.
type RoomEventCommands interface {
	// DeleteRoomReservations removes every reservation of the room whatever its status.
	// Deleting nothing is success, which makes redelivery harmless.
	DeleteRoomReservations(ctx context.Context, roomID int64) (int64, error)
}

type roomEventCommandsImpl struct {
	uow     shared.UnitOfWork
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewRoomEventCommands(uow shared.UnitOfWork, m *metrics.Metrics, logger *slog.Logger) RoomEventCommands {
	return &roomEventCommandsImpl{uow: uow, metrics: m, logger: logger}
}

func (c *roomEventCommandsImpl) DeleteRoomReservations(ctx context.Context, roomID int64) (int64, error) {
	id, err := reservation.NewRoomID(roomID)
	if err != nil {
		return 0, shared.MapDomainErr(err)
	}

	var deleted int64
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()
		// Waits for in-flight bookings of the room so none survives the cascade.
		if err := repo.LockRoom(ctx, id); err != nil {
			return err
		}
		n, err := repo.DeleteByRoom(ctx, id)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, errs.Wrapf(err, "failed to delete reservations of room %d", roomID)
	}

	c.metrics.CascadeDeleted.Add(float64(deleted))
	c.logger.Info("reservations removed for deleted room",
		slog.Int64("room_id", roomID),
		slog.Int64("deleted", deleted))
	return deleted, nil
}
