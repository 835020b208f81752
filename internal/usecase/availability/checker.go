// Package availability answers whether a room is free for a time slot.
package availability

import (
	"context"
	"log/slog"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// RoomDirectory resolves rooms in the external room-management system.
// A (false, nil) answer means the room does not exist; an error means the directory could not answer.
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomID reservation.RoomID) (bool, error)
}

type Result struct {
	RoomID    reservation.RoomID
	Available bool
	Conflicts []uuid.UUID
}

type Checker struct {
	rooms  RoomDirectory
	logger *slog.Logger
}

// NewChecker accepts a nil directory; room verification is then skipped.
func NewChecker(rooms RoomDirectory, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{rooms: rooms, logger: logger}
}

// VerifyRoom fails only when the directory positively reports the room as missing.
func (c *Checker) VerifyRoom(ctx context.Context, roomID reservation.RoomID) error {
	if c.rooms == nil {
		return nil
	}

	exists, err := c.rooms.RoomExists(ctx, roomID)
	if err != nil {
		c.logger.Warn("room directory unavailable, proceeding optimistically",
			slog.Int64("room_id", roomID.Int64()),
			slog.String("error", err.Error()))
		return nil
	}
	if !exists {
		return shared.ErrRoomNotFound
	}
	return nil
}

// Check runs the conflict query through finder, which may be bound to a transaction holding the room lock.
// It never writes.
func (c *Checker) Check(ctx context.Context, finder shared.ConflictFinder, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) (*Result, error) {
	if err := c.VerifyRoom(ctx, roomID); err != nil {
		return nil, err
	}

	conflicts, err := finder.FindConflicts(ctx, roomID, slot, exclude)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find conflicting reservations")
	}
	if conflicts == nil {
		conflicts = []uuid.UUID{}
	}

	return &Result{
		RoomID:    roomID,
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// NewSlot builds a time slot and reports malformed intervals as validation errors.
func NewSlot(start, end time.Time) (reservation.TimeSlot, error) {
	slot, err := reservation.NewTimeSlot(start, end)
	if err != nil {
		return reservation.TimeSlot{}, shared.MapDomainErr(err)
	}
	return slot, nil
}
