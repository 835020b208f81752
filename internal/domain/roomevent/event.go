// Package roomevent decodes lifecycle events published by the room directory.
package roomevent

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

const TypeRoomDeleted = "room_deleted"

var (
	ErrMalformed     = errors.New("room event is not a JSON object")
	ErrUnknownType   = errors.New("unknown room event type")
	ErrMissingRoomID = errors.New("room event has no usable room_id")
)

type Event struct {
	Type   string
	RoomID int64
}

type wireEvent struct {
	EventType string          `json:"event_type"`
	RoomID    json.RawMessage `json:"room_id"`
}

// Parse returns the decoded event along with an error for every event the consumer should skip.
// The returned Event still carries Type when only room_id is unusable, for logging.
func Parse(body []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return Event{}, ErrMalformed
	}

	ev := Event{Type: w.EventType}
	if w.EventType != TypeRoomDeleted {
		return ev, ErrUnknownType
	}

	id, ok := parseRoomID(w.RoomID)
	if !ok {
		return ev, ErrMissingRoomID
	}
	ev.RoomID = id
	return ev, nil
}

// parseRoomID accepts a JSON integer or a numeric string.
func parseRoomID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n json.Number
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	switch t := v.(type) {
	case json.Number:
		n = t
	case string:
		n = json.Number(strings.TrimSpace(t))
	default:
		return 0, false
	}

	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
