package components

import (
	"context"
	"log/slog"

	"room-booking/internal/infra/cache"
	"room-booking/internal/infra/roomdir"
	"room-booking/internal/pkg/config"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/worker/roomevents"

	"go.uber.org/fx"
)

var RoomDirectoryModule = fx.Module("roomdir",
	fx.Provide(
		NewRoomDirectory,
	),
)

type RoomDirectoryResult struct {
	fx.Out

	Directory availability.RoomDirectory
	Marker    roomevents.RoomMarker
}

// NewRoomDirectory leaves both outputs nil when no directory URL is configured, and the marker nil
// when Redis is not configured or unreachable. Consumers treat nil as "feature off".
func NewRoomDirectory(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) RoomDirectoryResult {
	if cfg.RoomDirectory.BaseURL == "" {
		logger.Warn("room directory not configured, rooms are not verified")
		return RoomDirectoryResult{}
	}
	client := roomdir.NewClient(cfg.RoomDirectory.BaseURL, cfg.RoomDirectory.Timeout)

	if cfg.Redis.Addr == "" {
		return RoomDirectoryResult{Directory: client}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RoomDirectory.Timeout)
	defer cancel()
	c, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("room cache unavailable, querying the directory directly", "error", err)
		return RoomDirectoryResult{Directory: client}
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return c.Close()
		},
	})

	cached := roomdir.NewCached(client, c, cfg.Redis.RoomTTL, logger)
	return RoomDirectoryResult{Directory: cached, Marker: cached}
}
