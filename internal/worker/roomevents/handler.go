package roomevents

import (
	"context"
	"errors"
	"log/slog"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/roomevent"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/commands"
)

// RoomMarker learns about deleted rooms ahead of the room directory's own cache expiry.
type RoomMarker interface {
	MarkDeleted(ctx context.Context, roomID reservation.RoomID)
}

// Handler applies one room event. Undecodable or unknown events are skipped without error so they get acknowledged.
type Handler struct {
	commands commands.RoomEventCommands
	rooms    RoomMarker
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHandler accepts a nil rooms.
func NewHandler(cmds commands.RoomEventCommands, rooms RoomMarker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{commands: cmds, rooms: rooms, metrics: m, logger: logger}
}

func (h *Handler) Handle(ctx context.Context, body []byte) error {
	ev, err := roomevent.Parse(body)
	if err != nil {
		h.skip(ev, body, err)
		return nil
	}

	if h.rooms != nil {
		h.rooms.MarkDeleted(ctx, reservation.RoomID(ev.RoomID))
	}

	deleted, err := h.commands.DeleteRoomReservations(ctx, ev.RoomID)
	if err != nil {
		h.metrics.RoomEventsProcessed.WithLabelValues(ev.Type, metrics.OutcomeFailed).Inc()
		return err
	}

	h.metrics.RoomEventsProcessed.WithLabelValues(ev.Type, metrics.OutcomeApplied).Inc()
	h.logger.Info("room event applied",
		slog.String("event_type", ev.Type),
		slog.Int64("room_id", ev.RoomID),
		slog.Int64("deleted", deleted))
	return nil
}

func (h *Handler) skip(ev roomevent.Event, body []byte, reason error) {
	eventType := ev.Type
	if eventType == "" {
		eventType = "unknown"
	}
	h.metrics.RoomEventsProcessed.WithLabelValues(eventType, metrics.OutcomeIgnored).Inc()

	attrs := []any{slog.String("event_type", eventType), slog.String("reason", reason.Error())}
	if errors.Is(reason, roomevent.ErrMalformed) {
		attrs = append(attrs, slog.Int("body_bytes", len(body)))
	}
	h.logger.Warn("room event skipped", attrs...)
}
