package amqp

import (
	"context"
	"fmt"
	"sync"

	"room-booking/internal/infra/broker"
	"room-booking/internal/pkg/errs"

	"github.com/streadway/amqp"
)

// Publisher sends persistent JSON messages to a topic exchange.
type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewPublisher(url string) (*Publisher, error) {
	const op = "amqp.NewPublisher"

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errs.Mark(fmt.Errorf("%s: %w", op, err), broker.ErrUnavailable)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Publisher{conn: conn, ch: ch}, nil
}

func (p *Publisher) Publish(_ context.Context, topic string, body []byte) error {
	const op = "amqp.Publisher.Publish"

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := declareTopic(p.ch, topic); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	err := p.ch.Publish(
		topic,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil && err != amqp.ErrClosed {
		return err
	}
	return p.conn.Close()
}
