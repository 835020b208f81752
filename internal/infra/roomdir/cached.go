package roomdir

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/usecase/availability"
)

// Store is satisfied by *cache.Cache.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type entry struct {
	Exists bool `json:"exists"`
}

// Cached remembers both answers of the wrapped directory. Cache failures fall through to the directory.
type Cached struct {
	next   availability.RoomDirectory
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(next availability.RoomDirectory, store Store, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *Cached) RoomExists(ctx context.Context, roomID reservation.RoomID) (bool, error) {
	key := roomKey(roomID)

	var e entry
	found, err := c.store.Get(ctx, key, &e)
	if err != nil {
		c.logger.Warn("room cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return e.Exists, nil
	}

	exists, err := c.next.RoomExists(ctx, roomID)
	if err != nil {
		return false, err
	}
	c.remember(ctx, roomID, exists)
	return exists, nil
}

// MarkDeleted records the room as gone so bookings stop passing verification before the entry expires.
func (c *Cached) MarkDeleted(ctx context.Context, roomID reservation.RoomID) {
	c.remember(ctx, roomID, false)
}

func (c *Cached) remember(ctx context.Context, roomID reservation.RoomID, exists bool) {
	key := roomKey(roomID)
	if err := c.store.Set(ctx, key, entry{Exists: exists}, c.ttl); err != nil {
		c.logger.Warn("room cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func roomKey(roomID reservation.RoomID) string {
	return fmt.Sprintf("roomdir:room:%d", roomID.Int64())
}
