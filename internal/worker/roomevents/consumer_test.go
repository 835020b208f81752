//go:build unit

package roomevents_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"room-booking/internal/infra/broker/memory"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/worker/roomevents"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	topic   = "room_events"
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recordingHandler struct {
	mu     sync.Mutex
	bodies []string
	fail   atomic.Int32
	panics atomic.Int32
}

func (h *recordingHandler) Handle(_ context.Context, body []byte) error {
	if h.panics.Load() > 0 {
		h.panics.Add(-1)
		panic("handler exploded")
	}
	if h.fail.Load() > 0 {
		h.fail.Add(-1)
		return errors.New("database unavailable")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bodies = append(h.bodies, string(body))
	return nil
}

func (h *recordingHandler) handled() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.bodies...)
}

func newConsumer(t *testing.T, b *memory.Broker, h roomevents.MessageHandler, cfg roomevents.Config) (*roomevents.Consumer, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	cfg.Topic = topic
	cfg.Group = "reservation-service"
	c := roomevents.NewConsumer(cfg, b.Factory(), h, m, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, c.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = c.Stop(ctx)
	})
	return c, m
}

func fastConfig() roomevents.Config {
	return roomevents.Config{Delay: 5 * time.Millisecond, MaxAttempts: 3, ThrottledDelay: 20 * time.Millisecond}
}

func TestConsumer_DeliversAndAcks(t *testing.T) {
	b := memory.New()
	h := &recordingHandler{}
	c, m := newConsumer(t, b, h, fastConfig())

	require.Eventually(t, func() bool { return c.Health().State == roomevents.StateListening }, waitFor, tick)
	require.NoError(t, b.Publish(context.Background(), topic, []byte("first")))
	require.NoError(t, b.Publish(context.Background(), topic, []byte("second")))

	require.Eventually(t, func() bool { return len(h.handled()) == 2 }, waitFor, tick)
	assert.Equal(t, []string{"first", "second"}, h.handled())
	assert.Equal(t, int64(2), b.Acks())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsumerState.WithLabelValues("listening")))
}

func TestConsumer_OutageDegradesThenRecovers(t *testing.T) {
	b := memory.New()
	b.SetAvailable(false)
	h := &recordingHandler{}
	c, _ := newConsumer(t, b, h, fastConfig())

	require.Eventually(t, func() bool {
		hl := c.Health()
		return hl.Degraded && hl.Attempts > 3
	}, waitFor, tick)
	assert.NotEmpty(t, c.Health().LastError)
	assert.NotEqual(t, roomevents.StateListening, c.Health().State)

	b.SetAvailable(true)
	require.Eventually(t, func() bool { return c.Health().State == roomevents.StateListening }, waitFor, tick)

	hl := c.Health()
	assert.Zero(t, hl.Attempts)
	assert.False(t, hl.Degraded)
	assert.Empty(t, hl.LastError)
}

func TestConsumer_ThrottlesAfterMaxAttempts(t *testing.T) {
	b := memory.New()
	b.SetAvailable(false)
	cfg := roomevents.Config{Delay: time.Millisecond, MaxAttempts: 2, ThrottledDelay: time.Hour}
	c, _ := newConsumer(t, b, &recordingHandler{}, cfg)

	require.Eventually(t, func() bool { return c.Health().Degraded }, waitFor, tick)
	// one initial attempt plus two short retries, then parked in the throttled wait
	assert.Never(t, func() bool { return b.ConnectAttempts() > 3 }, 50*time.Millisecond, tick)
	assert.Equal(t, int64(3), b.ConnectAttempts())
	assert.Equal(t, 3, c.Health().Attempts)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.Stop(ctx))
	assert.Equal(t, roomevents.StateStopped, c.Health().State)
}

func TestConsumer_NotDegradedWithinMaxAttempts(t *testing.T) {
	b := memory.New()
	b.SetAvailable(false)
	cfg := roomevents.Config{Delay: time.Hour, MaxAttempts: 1, ThrottledDelay: time.Hour}
	c, _ := newConsumer(t, b, &recordingHandler{}, cfg)

	require.Eventually(t, func() bool { return c.Health().Attempts == 1 }, waitFor, tick)
	assert.Never(t, func() bool { return c.Health().Degraded }, 50*time.Millisecond, tick)
	assert.Equal(t, int64(1), b.ConnectAttempts())
}

func TestConsumer_HandlerFailureRequeuesAndReconnects(t *testing.T) {
	b := memory.New()
	h := &recordingHandler{}
	h.fail.Store(1)
	c, _ := newConsumer(t, b, h, fastConfig())

	require.Eventually(t, func() bool { return c.Health().State == roomevents.StateListening }, waitFor, tick)
	require.NoError(t, b.Publish(context.Background(), topic, []byte("retry")))

	require.Eventually(t, func() bool { return len(h.handled()) == 1 }, waitFor, tick)
	assert.Equal(t, int64(1), b.Nacks())
	assert.Equal(t, int64(1), b.Acks())
	assert.GreaterOrEqual(t, b.ConnectAttempts(), int64(2))
	assert.False(t, c.Health().Degraded)
}

func TestConsumer_RecoversFromHandlerPanic(t *testing.T) {
	b := memory.New()
	h := &recordingHandler{}
	h.panics.Store(1)
	c, _ := newConsumer(t, b, h, fastConfig())

	require.Eventually(t, func() bool { return c.Health().State == roomevents.StateListening }, waitFor, tick)
	require.NoError(t, b.Publish(context.Background(), topic, []byte("boom")))

	require.Eventually(t, func() bool { return len(h.handled()) == 1 }, waitFor, tick)
	assert.Equal(t, []string{"boom"}, h.handled())
	assert.Equal(t, int64(1), b.Nacks())
}

func TestConsumer_StartTwiceFails(t *testing.T) {
	c, _ := newConsumer(t, memory.New(), &recordingHandler{}, fastConfig())
	assert.Error(t, c.Start(context.Background()))
}
