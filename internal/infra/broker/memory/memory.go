// Package memory is an in-process broker with the same delivery semantics as the AMQP stream.
// Tests drive it to simulate outages.
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"room-booking/internal/infra/broker"
	"room-booking/internal/pkg/errs"
)

const queueBuffer = 128

var errNotConnected = errs.New("memory broker: stream not connected")

type Broker struct {
	mu       sync.Mutex
	queues   map[string]chan []byte
	bindings map[string][]string
	pending  map[string][][]byte

	down     bool
	downCh   chan struct{}
	connects atomic.Int64
	acks     atomic.Int64
	nacks    atomic.Int64
}

func New() *Broker {
	return &Broker{
		queues:   map[string]chan []byte{},
		bindings: map[string][]string{},
		pending:  map[string][][]byte{},
		downCh:   make(chan struct{}),
	}
}

// SetAvailable toggles the outage simulation. Going down breaks every live stream.
func (b *Broker) SetAvailable(available bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if available == !b.down {
		return
	}
	b.down = !available
	if b.down {
		close(b.downCh)
	} else {
		b.downCh = make(chan struct{})
	}
}

func (b *Broker) ConnectAttempts() int64 { return b.connects.Load() }
func (b *Broker) Acks() int64            { return b.acks.Load() }
func (b *Broker) Nacks() int64           { return b.nacks.Load() }

func (b *Broker) Factory() broker.StreamFactory {
	return func() broker.Stream {
		return &Stream{b: b}
	}
}

// Publish fans out to every queue bound to topic. Messages sent before any binding wait for the first one.
func (b *Broker) Publish(ctx context.Context, topic string, body []byte) error {
	b.mu.Lock()
	if b.down {
		b.mu.Unlock()
		return broker.ErrUnavailable
	}
	names := b.bindings[topic]
	if len(names) == 0 {
		b.pending[topic] = append(b.pending[topic], body)
		b.mu.Unlock()
		return nil
	}
	targets := make([]chan []byte, 0, len(names))
	for _, name := range names {
		targets = append(targets, b.queues[name])
	}
	b.mu.Unlock()

	for _, q := range targets {
		select {
		case q <- body:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Broker) bind(topic, group string) (chan []byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.down {
		return nil, broker.ErrUnavailable
	}

	name := broker.QueueName(group, topic)
	q, ok := b.queues[name]
	if !ok {
		backlog := b.pending[topic]
		q = make(chan []byte, len(backlog)+queueBuffer)
		b.queues[name] = q
		b.bindings[topic] = append(b.bindings[topic], name)
		for _, body := range backlog {
			q <- body
		}
		delete(b.pending, topic)
	}
	return q, nil
}

func (b *Broker) outage() (bool, <-chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.down, b.downCh
}

type Stream struct {
	b     *Broker
	down  <-chan struct{}
	queue chan []byte
}

func (s *Stream) Connect(context.Context) error {
	s.b.connects.Add(1)
	down, ch := s.b.outage()
	if down {
		return broker.ErrUnavailable
	}
	s.down = ch
	return nil
}

func (s *Stream) Subscribe(_ context.Context, topic, group string) error {
	if s.down == nil {
		return errNotConnected
	}
	q, err := s.b.bind(topic, group)
	if err != nil {
		return err
	}
	s.queue = q
	return nil
}

func (s *Stream) Fetch(ctx context.Context) (broker.Delivery, error) {
	if s.queue == nil {
		return nil, errNotConnected
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.down:
		return nil, broker.ErrUnavailable
	case body := <-s.queue:
		return &delivery{body: body, queue: s.queue, b: s.b}, nil
	}
}

func (s *Stream) Close() error {
	s.queue = nil
	return nil
}

type delivery struct {
	body  []byte
	queue chan []byte
	b     *Broker
	done  bool
}

func (d *delivery) Body() []byte {
	return d.body
}

func (d *delivery) Ack() error {
	if d.done {
		return nil
	}
	d.done = true
	d.b.acks.Add(1)
	return nil
}

func (d *delivery) Nack(requeue bool) error {
	if d.done {
		return nil
	}
	d.done = true
	d.b.nacks.Add(1)
	if requeue {
		select {
		case d.queue <- d.body:
		default:
			return errs.New("memory broker: queue full, message dropped")
		}
	}
	return nil
}
