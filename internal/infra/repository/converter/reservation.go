package converter

import (
	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"
	"room-booking/internal/infra"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
)

func ReservationToInfra(res *reservation.Reservation) sqlc.CreateReservationParams {
	slot := res.TimeSlot()
	return sqlc.CreateReservationParams{
		ID:        res.ID(),
		RoomID:    res.RoomID().Int64(),
		UserID:    res.UserID(),
		StartTime: pgconv.TimeToPgtype(slot.Start()),
		EndTime:   pgconv.TimeToPgtype(slot.End()),
		Status:    res.Status().String(),
		CreatedAt: pgconv.TimeToPgtype(res.CreatedAt()),
		UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
	}
}

// ReservationFromInfra rebuilds the aggregate; rows violating domain rules are reported as DB failures.
func ReservationFromInfra(row sqlc.Reservation) (*reservation.Reservation, error) {
	roomID, err := reservation.NewRoomID(row.RoomID)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid room id", err, infra.KindDBFailure)
	}
	slot, err := reservation.NewTimeSlot(pgconv.TimeFromPgtype(row.StartTime), pgconv.TimeFromPgtype(row.EndTime))
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid time slot", err, infra.KindDBFailure)
	}
	status, err := reservation.ParseStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored reservation has invalid status", err, infra.KindDBFailure)
	}

	return reservation.ReconstructReservation(
		row.ID,
		roomID,
		row.UserID,
		slot,
		status,
		pgconv.TimeFromPgtype(row.CreatedAt),
		pgconv.TimeFromPgtype(row.UpdatedAt),
	), nil
}

func UserToInfra(u *user.User) sqlc.CreateUserParams {
	return sqlc.CreateUserParams{
		ID:           u.ID(),
		Username:     u.Username().Value(),
		PasswordHash: u.PasswordHash(),
		Role:         u.Role().String(),
		CreatedAt:    pgconv.TimeToPgtype(u.CreatedAt()),
		UpdatedAt:    pgconv.TimeToPgtype(u.UpdatedAt()),
	}
}
