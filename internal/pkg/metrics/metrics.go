package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "room_booking"

// Event outcomes reported by the room event consumer.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
	OutcomeFailed  = "failed"
)

// Metrics owns a private registry so tests can build as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	ReservationsCreated    prometheus.Counter
	ReservationConflicts   prometheus.Counter
	ReservationsCancelled  prometheus.Counter
	CascadeDeleted         prometheus.Counter
	RoomEventsProcessed    *prometheus.CounterVec
	ConsumerState          *prometheus.GaugeVec
	ConsumerConnectAttempt prometheus.Counter
	LoginAttempts          *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		ReservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "Confirmed reservations written.",
		}),
		ReservationConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_conflicts_total",
			Help:      "Create or reschedule attempts rejected because of an overlapping confirmed reservation.",
		}),
		ReservationsCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_cancelled_total",
			Help:      "Reservations cancelled by their owner or an admin.",
		}),
		CascadeDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_cascade_deleted_total",
			Help:      "Reservations removed because their room was deleted.",
		}),
		RoomEventsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_events_processed_total",
			Help:      "Room events consumed, by event type and outcome.",
		}, []string{"event_type", "outcome"}),
		ConsumerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "room_events_consumer_state",
			Help:      "1 for the current state of the room event consumer, 0 otherwise.",
		}, []string{"state"}),
		ConsumerConnectAttempt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "room_events_connect_attempts_total",
			Help:      "Connection attempts made by the room event consumer.",
		}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts, by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ReservationsCreated,
		m.ReservationConflicts,
		m.ReservationsCancelled,
		m.CascadeDeleted,
		m.RoomEventsProcessed,
		m.ConsumerState,
		m.ConsumerConnectAttempt,
		m.LoginAttempts,
	)
	return m
}

// SetConsumerState flips the state gauge so exactly one of the known states reads 1.
func (m *Metrics) SetConsumerState(current string, all []string) {
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		m.ConsumerState.WithLabelValues(s).Set(v)
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
