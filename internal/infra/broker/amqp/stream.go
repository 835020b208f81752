// Package amqp implements the broker stream on RabbitMQ.
// Each topic is a durable topic exchange; a consumer group shares one durable queue bound to it.
package amqp

import (
	"context"
	"fmt"
	"sync"

	"room-booking/internal/infra/broker"
	"room-booking/internal/pkg/errs"

	"github.com/streadway/amqp"
)

const exchangeKind = "topic"

type Stream struct {
	url      string
	prefetch int

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
	closed     chan *amqp.Error
}

func NewStream(url string, prefetch int) *Stream {
	return &Stream{url: url, prefetch: prefetch}
}

// Factory returns a constructor the consumer calls once per connection attempt.
func Factory(url string, prefetch int) broker.StreamFactory {
	return func() broker.Stream {
		return NewStream(url, prefetch)
	}
}

func (s *Stream) Connect(_ context.Context) error {
	const op = "amqp.Stream.Connect"

	conn, err := amqp.Dial(s.url)
	if err != nil {
		return errs.Mark(fmt.Errorf("%s: %w", op, err), broker.ErrUnavailable)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return errs.Mark(fmt.Errorf("%s: %w", op, err), broker.ErrUnavailable)
	}
	if s.prefetch > 0 {
		if err := ch.Qos(s.prefetch, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return fmt.Errorf("%s: failed to set QoS: %w", op, err)
		}
	}

	s.mu.Lock()
	s.conn, s.ch = conn, ch
	s.closed = conn.NotifyClose(make(chan *amqp.Error, 1))
	s.mu.Unlock()
	return nil
}

func (s *Stream) Subscribe(_ context.Context, topic, group string) error {
	const op = "amqp.Stream.Subscribe"

	s.mu.Lock()
	ch := s.ch
	s.mu.Unlock()
	if ch == nil {
		return errs.Mark(fmt.Errorf("%s: not connected", op), broker.ErrUnavailable)
	}

	if err := declareTopic(ch, topic); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	queue := broker.QueueName(group, topic)
	if _, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("%s: failed to declare queue %s: %w", op, queue, err)
	}
	if err := ch.QueueBind(queue, "#", topic, false, nil); err != nil {
		return fmt.Errorf("%s: failed to bind queue %s to %s: %w", op, queue, topic, err)
	}

	deliveries, err := ch.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.deliveries = deliveries
	s.mu.Unlock()
	return nil
}

func (s *Stream) Fetch(ctx context.Context) (broker.Delivery, error) {
	s.mu.Lock()
	deliveries, closed := s.deliveries, s.closed
	s.mu.Unlock()
	if deliveries == nil {
		return nil, errs.Mark(errs.New("amqp.Stream.Fetch: not subscribed"), broker.ErrUnavailable)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case amqpErr, ok := <-closed:
		if ok && amqpErr != nil {
			return nil, errs.Mark(fmt.Errorf("amqp.Stream.Fetch: connection closed: %w", amqpErr), broker.ErrUnavailable)
		}
		return nil, errs.Mark(errs.New("amqp.Stream.Fetch: connection closed"), broker.ErrUnavailable)
	case d, ok := <-deliveries:
		if !ok {
			return nil, errs.Mark(errs.New("amqp.Stream.Fetch: delivery channel closed"), broker.ErrUnavailable)
		}
		return &delivery{d: d}, nil
	}
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.ch != nil {
		if err := s.ch.Close(); err != nil && err != amqp.ErrClosed {
			firstErr = err
		}
		s.ch = nil
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil && err != amqp.ErrClosed && firstErr == nil {
			firstErr = err
		}
		s.conn = nil
	}
	s.deliveries = nil
	return firstErr
}

func declareTopic(ch *amqp.Channel, topic string) error {
	if err := ch.ExchangeDeclare(
		topic,
		exchangeKind,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", topic, err)
	}
	return nil
}

type delivery struct {
	d amqp.Delivery
}

func (d *delivery) Body() []byte {
	return d.d.Body
}

func (d *delivery) Ack() error {
	return d.d.Ack(false)
}

func (d *delivery) Nack(requeue bool) error {
	return d.d.Nack(false, requeue)
}
