package request

import (
	"time"

	"room-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

// Times are RFC 3339; the slot is half-open [start_time, end_time).
type CreateReservationRequest struct {
	RoomID    int64     `json:"room_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

func (r CreateReservationRequest) ToInput(userID uuid.UUID) commands.CreateReservationInput {
	return commands.CreateReservationInput{
		RoomID:    r.RoomID,
		UserID:    userID,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type RescheduleReservationRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type AvailabilityQuery struct {
	StartTime time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}
