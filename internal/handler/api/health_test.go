//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"room-booking/internal/handler/api"
	"room-booking/internal/testutil/httptest"
	"room-booking/internal/worker/roomevents"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fixedHealth roomevents.Health

func (f fixedHealth) Health() roomevents.Health { return roomevents.Health(f) }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		consumer   api.ConsumerHealth
		wantStatus string
		wantState  string
	}{
		{name: "no consumer", wantStatus: "ok"},
		{name: "listening consumer", consumer: fixedHealth{State: roomevents.StateListening}, wantStatus: "ok", wantState: "listening"},
		{
			name:       "degraded consumer still answers 200",
			consumer:   fixedHealth{State: roomevents.StateDisconnected, Attempts: 5, Degraded: true, LastError: "broker unavailable"},
			wantStatus: "degraded",
			wantState:  "disconnected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", api.NewHealthHandler(tt.consumer).Check)

			rec := httptest.PerformRequest(t, router, http.MethodGet, "/health", nil, "")

			var body api.HealthResponse
			httptest.AssertSuccessResponse(t, rec, http.StatusOK, &body)
			assert.Equal(t, tt.wantStatus, body.Status)
			if tt.wantState == "" {
				assert.Nil(t, body.Consumer)
				return
			}
			if assert.NotNil(t, body.Consumer) {
				assert.Equal(t, roomevents.State(tt.wantState), body.Consumer.State)
			}
		})
	}
}
