package components

import (
	"log/slog"

	"room-booking/internal/handler/api"
	"room-booking/internal/infra/broker/amqp"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/worker/roomevents"

	"go.uber.org/fx"
)

var RoomEventsModule = fx.Module("worker/roomevents",
	fx.Provide(
		NewRoomEventConsumer,
	),
)

// NewRoomEventConsumer ties the consumer to the app lifecycle. With the broker disabled it returns
// a nil ConsumerHealth and /health reports no consumer.
func NewRoomEventConsumer(
	lc fx.Lifecycle,
	cfg config.Config,
	cmds commands.RoomEventCommands,
	marker roomevents.RoomMarker,
	m *metrics.Metrics,
	logger *slog.Logger,
) api.ConsumerHealth {
	if !cfg.Broker.Enabled {
		logger.Warn("room event consumer disabled")
		return nil
	}

	consumer := roomevents.NewConsumer(roomevents.Config{
		Topic:          cfg.Broker.Topic,
		Group:          cfg.Broker.ConsumerGroup,
		Delay:          cfg.Broker.RetryDelay,
		MaxAttempts:    cfg.Broker.MaxAttempts,
		ThrottledDelay: cfg.Broker.ThrottledDelay,
	},
		amqp.Factory(cfg.Broker.URL, cfg.Broker.Prefetch),
		roomevents.NewHandler(cmds, marker, m, logger),
		m,
		logger,
	)

	lc.Append(fx.Hook{
		OnStart: consumer.Start,
		OnStop:  consumer.Stop,
	})
	return consumer
}
