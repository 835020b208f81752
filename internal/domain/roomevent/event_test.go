//go:build unit

package roomevent_test

import (
	"testing"

	"room-booking/internal/domain/roomevent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantID   int64
		wantType string
		errIs    error
	}{
		{name: "integer room id", body: `{"event_type":"room_deleted","room_id":42}`, wantID: 42, wantType: "room_deleted"},
		{name: "numeric string room id", body: `{"event_type":"room_deleted","room_id":"7"}`, wantID: 7, wantType: "room_deleted"},
		{name: "extra fields ignored", body: `{"event_type":"room_deleted","room_id":3,"deleted_by":"ops"}`, wantID: 3, wantType: "room_deleted"},
		{name: "unknown type", body: `{"event_type":"room_created","room_id":42}`, wantType: "room_created", errIs: roomevent.ErrUnknownType},
		{name: "missing type", body: `{"room_id":42}`, errIs: roomevent.ErrUnknownType},
		{name: "missing room id", body: `{"event_type":"room_deleted"}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "null room id", body: `{"event_type":"room_deleted","room_id":null}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "fractional room id", body: `{"event_type":"room_deleted","room_id":4.5}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "non numeric string", body: `{"event_type":"room_deleted","room_id":"abc"}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "negative room id", body: `{"event_type":"room_deleted","room_id":-1}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "object room id", body: `{"event_type":"room_deleted","room_id":{"id":1}}`, wantType: "room_deleted", errIs: roomevent.ErrMissingRoomID},
		{name: "not json", body: `room 7 is gone`, errIs: roomevent.ErrMalformed},
		{name: "json array", body: `[1,2]`, errIs: roomevent.ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := roomevent.Parse([]byte(tt.body))
			assert.Equal(t, tt.wantType, ev.Type)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ev.RoomID)
		})
	}
}
