package response

import (
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationResponse struct {
	ID        uuid.UUID `json:"id"`
	RoomID    int64     `json:"room_id"`
	UserID    uuid.UUID `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AvailabilityResponse struct {
	RoomID    int64       `json:"room_id"`
	Available bool        `json:"available"`
	Conflicts []uuid.UUID `json:"conflicts"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return copyInto[ReservationResponse](v)
}

func FromReservationViews(vs []*queries.ReservationView) []*ReservationResponse {
	res := make([]*ReservationResponse, len(vs))
	for i, v := range vs {
		res[i] = FromReservationView(v)
	}
	return res
}

func FromReservation(r *reservation.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:        r.ID(),
		RoomID:    r.RoomID().Int64(),
		UserID:    r.UserID(),
		StartTime: r.TimeSlot().Start(),
		EndTime:   r.TimeSlot().End(),
		Status:    r.Status().String(),
		CreatedAt: r.CreatedAt(),
		UpdatedAt: r.UpdatedAt(),
	}
}

// FromAvailabilityView always renders conflicts as a JSON array, never null.
func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	res := copyInto[AvailabilityResponse](v)
	if res.Conflicts == nil {
		res.Conflicts = []uuid.UUID{}
	}
	return res
}
