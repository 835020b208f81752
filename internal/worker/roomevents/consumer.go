// Package roomevents consumes room lifecycle events and keeps the broker connection alive.
package roomevents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"room-booking/internal/infra/broker"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/metrics"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateListening    State = "listening"
	StateStopped      State = "stopped"
)

var allStates = []string{
	string(StateDisconnected),
	string(StateConnecting),
	string(StateListening),
	string(StateStopped),
}

var errAlreadyStarted = errs.New("room event consumer already started")

type Config struct {
	Topic string
	Group string
	// Delay separates reconnects after ordinary failures and the first MaxAttempts outages.
	Delay          time.Duration
	MaxAttempts    int
	ThrottledDelay time.Duration
}

type MessageHandler interface {
	Handle(ctx context.Context, body []byte) error
}

type Health struct {
	State     State  `json:"state"`
	Attempts  int    `json:"attempts"`
	Degraded  bool   `json:"degraded"`
	LastError string `json:"last_error,omitempty"`
}

// Consumer owns one goroutine that connects, subscribes, and dispatches deliveries until stopped.
type Consumer struct {
	cfg       Config
	newStream broker.StreamFactory
	handler   MessageHandler
	metrics   *metrics.Metrics
	logger    *slog.Logger

	mu        sync.RWMutex
	state     State
	attempts  int
	degraded  bool
	lastError string
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewConsumer(cfg Config, newStream broker.StreamFactory, handler MessageHandler, m *metrics.Metrics, logger *slog.Logger) *Consumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Consumer{
		cfg:       cfg,
		newStream: newStream,
		handler:   handler,
		metrics:   m,
		logger:    logger.With(slog.String("component", "room-events")),
		state:     StateDisconnected,
	}
	c.metrics.SetConsumerState(string(StateDisconnected), allStates)
	return c
}

// Start returns immediately; the loop outlives ctx and ends with Stop.
func (c *Consumer) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done != nil {
		return errAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(runCtx, c.done)

	c.logger.Info("room event consumer started",
		slog.String("topic", c.cfg.Topic),
		slog.String("group", c.cfg.Group))
	return nil
}

// Stop cancels the loop and waits for it to exit or for ctx to end.
func (c *Consumer) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	c.setState(StateStopped)
	c.logger.Info("room event consumer stopped")
	return nil
}

func (c *Consumer) Health() Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Health{
		State:     c.state,
		Attempts:  c.attempts,
		Degraded:  c.degraded,
		LastError: c.lastError,
	}
}

func (c *Consumer) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for ctx.Err() == nil {
		stream := c.newStream()
		c.setState(StateConnecting)
		c.metrics.ConsumerConnectAttempt.Inc()

		err := c.session(ctx, stream)
		if closeErr := stream.Close(); closeErr != nil {
			c.logger.Warn("failed to close broker stream", slog.String("error", closeErr.Error()))
		}
		if ctx.Err() != nil {
			return
		}

		c.setState(StateDisconnected)
		if !sleep(ctx, c.onFailure(err)) {
			return
		}
	}
}

func (c *Consumer) session(ctx context.Context, stream broker.Stream) error {
	if err := stream.Connect(ctx); err != nil {
		return err
	}
	if err := stream.Subscribe(ctx, c.cfg.Topic, c.cfg.Group); err != nil {
		return err
	}
	c.markListening()

	for {
		d, err := stream.Fetch(ctx)
		if err != nil {
			return err
		}
		if err := c.dispatch(ctx, d); err != nil {
			return err
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, d broker.Delivery) error {
	if err := c.safeHandle(ctx, d.Body()); err != nil {
		if nackErr := d.Nack(true); nackErr != nil {
			c.logger.Warn("failed to nack room event", slog.String("error", nackErr.Error()))
		}
		return errs.Wrap(err, "room event handling failed")
	}
	if err := d.Ack(); err != nil {
		return errs.Wrap(err, "failed to ack room event")
	}
	return nil
}

func (c *Consumer) safeHandle(ctx context.Context, body []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in room event handler: %v", r)
		}
	}()
	return c.handler.Handle(ctx, body)
}

// onFailure records err and returns how long to wait before the next attempt.
func (c *Consumer) onFailure(err error) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastError = err.Error()
	if !errs.Is(err, broker.ErrUnavailable) {
		c.logger.Error("room event consumer failed, reconnecting",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", c.cfg.Delay))
		return c.cfg.Delay
	}

	c.attempts++
	// MaxAttempts short retries follow the first failure before throttling
	if c.attempts > c.cfg.MaxAttempts {
		if !c.degraded {
			c.logger.Error("broker unreachable, throttling reconnects",
				slog.Int("attempts", c.attempts),
				slog.Duration("retry_in", c.cfg.ThrottledDelay))
		}
		c.degraded = true
		return c.cfg.ThrottledDelay
	}

	c.logger.Warn("broker unavailable, retrying",
		slog.Int("attempt", c.attempts),
		slog.Int("max_attempts", c.cfg.MaxAttempts),
		slog.Duration("retry_in", c.cfg.Delay))
	return c.cfg.Delay
}

func (c *Consumer) markListening() {
	c.mu.Lock()
	c.attempts = 0
	c.degraded = false
	c.lastError = ""
	c.mu.Unlock()

	c.setState(StateListening)
	c.logger.Info("subscribed to room events", slog.String("queue", broker.QueueName(c.cfg.Group, c.cfg.Topic)))
}

func (c *Consumer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.metrics.SetConsumerState(string(s), allStates)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
