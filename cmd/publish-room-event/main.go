// Command publish-room-event sends one room lifecycle event to the broker,
// standing in for the room directory during local runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"room-booking/internal/domain/roomevent"
	"room-booking/internal/infra/broker/amqp"
	"room-booking/internal/pkg/config"
	"room-booking/internal/pkg/errs"
)

type options struct {
	roomID  int64
	event   string
	url     string
	topic   string
	timeout time.Duration
}

func main() {
	var opts options
	flag.Int64Var(&opts.roomID, "room", 0, "id of the room the event is about")
	flag.StringVar(&opts.event, "type", roomevent.TypeRoomDeleted, "event type")
	flag.StringVar(&opts.url, "url", "", "AMQP URL (default BROKER_URL)")
	flag.StringVar(&opts.topic, "topic", "", "topic (default BROKER_TOPIC)")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "publish timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(opts, logger); err != nil {
		logger.Error("failed to publish room event", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	if opts.roomID <= 0 {
		return errs.New("-room must be a positive id")
	}

	cfg, err := config.LoadBrokerConfig()
	if err != nil {
		return err
	}
	if opts.url != "" {
		cfg.URL = opts.url
	}
	if opts.topic != "" {
		cfg.Topic = opts.topic
	}

	body, err := json.Marshal(map[string]any{"event_type": opts.event, "room_id": opts.roomID})
	if err != nil {
		return errs.Wrap(err, "encode event")
	}

	pub, err := amqp.NewPublisher(cfg.URL)
	if err != nil {
		return err
	}
	defer func() { _ = pub.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	if err := pub.Publish(ctx, cfg.Topic, body); err != nil {
		return err
	}

	logger.Info("event published", "topic", cfg.Topic, "event_type", opts.event, "room_id", opts.roomID)
	return nil
}
