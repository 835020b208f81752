package api

import (
	"net/http"

	"room-booking/internal/worker/roomevents"

	"github.com/gin-gonic/gin"
)

type ConsumerHealth interface {
	Health() roomevents.Health
}

type HealthResponse struct {
	Status   string             `json:"status"`
	Consumer *roomevents.Health `json:"consumer,omitempty"`
}

// HealthHandler is a liveness check; it answers 200 even when the consumer is degraded.
type HealthHandler struct {
	consumer ConsumerHealth
}

// consumer may be nil for services without a background consumer.
func NewHealthHandler(consumer ConsumerHealth) *HealthHandler {
	return &HealthHandler{consumer: consumer}
}

// @Summary Health check
// @Description Liveness plus the state of the room event consumer
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	resp := HealthResponse{Status: "ok"}
	if h.consumer != nil {
		health := h.consumer.Health()
		resp.Consumer = &health
		if health.Degraded {
			resp.Status = "degraded"
		}
	}
	c.JSON(http.StatusOK, resp)
}
