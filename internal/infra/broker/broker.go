// Package broker abstracts the event stream the reservation service consumes.
package broker

import (
	"context"

	"room-booking/internal/pkg/errs"
)

// ErrUnavailable marks failures caused by the broker being unreachable.
var ErrUnavailable = errs.New("broker unavailable")

type Delivery interface {
	Body() []byte
	Ack() error
	Nack(requeue bool) error
}

// Stream is one connection to the broker. A closed stream is not reused; the consumer builds a new one per attempt.
type Stream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context, topic, group string) error
	// Fetch blocks until a delivery arrives, ctx ends, or the connection drops.
	Fetch(ctx context.Context) (Delivery, error)
	Close() error
}

type StreamFactory func() Stream

type Publisher interface {
	Publish(ctx context.Context, topic string, body []byte) error
}

// QueueName is the queue shared by every member of a consumer group.
func QueueName(group, topic string) string {
	return group + "." + topic
}
