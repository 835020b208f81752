package repository

import (
	"context"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/infra/repository/converter"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type ReservationWriteQueries interface {
	LockRoom(ctx context.Context, db sqlc.DBTX, roomID int64) error
	FindConflictingReservationIDs(ctx context.Context, db sqlc.DBTX, arg sqlc.FindConflictingReservationIDsParams) ([]uuid.UUID, error)
	CreateReservation(ctx context.Context, db sqlc.DBTX, arg sqlc.CreateReservationParams) (sqlc.Reservation, error)
	GetReservationByIDForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservation, error)
	UpdateReservationStatus(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationStatusParams) (int64, error)
	UpdateReservationSlot(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateReservationSlotParams) (int64, error)
	DeleteReservationsByRoom(ctx context.Context, db sqlc.DBTX, roomID int64) (int64, error)
}

// ReservationRepository is bound to one transaction.
type ReservationRepository struct {
	queries ReservationWriteQueries
	db      sqlc.DBTX
}

func NewReservationRepository(queries ReservationWriteQueries, db sqlc.DBTX) *ReservationRepository {
	return &ReservationRepository{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationRepository) LockRoom(ctx context.Context, roomID reservation.RoomID) error {
	if err := r.queries.LockRoom(ctx, r.db, roomID.Int64()); err != nil {
		return infra.WrapRepoErr("failed to lock room", err)
	}
	return nil
}

func (r *ReservationRepository) FindConflicts(ctx context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.queries.FindConflictingReservationIDs(ctx, r.db, conflictParams(roomID, slot, exclude))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find conflicting reservations", err)
	}
	return ids, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	if _, err := r.queries.CreateReservation(ctx, r.db, converter.ReservationToInfra(res)); err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	row, err := r.queries.GetReservationByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return converter.ReservationFromInfra(row)
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *reservation.Reservation) error {
	n, err := r.queries.UpdateReservationStatus(ctx, r.db, sqlc.UpdateReservationStatusParams{
		ID:        res.ID(),
		Status:    res.Status().String(),
		UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation status", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) UpdateSlot(ctx context.Context, res *reservation.Reservation) error {
	slot := res.TimeSlot()
	n, err := r.queries.UpdateReservationSlot(ctx, r.db, sqlc.UpdateReservationSlotParams{
		ID:        res.ID(),
		StartTime: pgconv.TimeToPgtype(slot.Start()),
		EndTime:   pgconv.TimeToPgtype(slot.End()),
		UpdatedAt: pgconv.TimeToPgtype(res.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update reservation slot", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) DeleteByRoom(ctx context.Context, roomID reservation.RoomID) (int64, error) {
	n, err := r.queries.DeleteReservationsByRoom(ctx, r.db, roomID.Int64())
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete reservations of room", err)
	}
	return n, nil
}

func conflictParams(roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) sqlc.FindConflictingReservationIDsParams {
	return sqlc.FindConflictingReservationIDsParams{
		RoomID:    roomID.Int64(),
		StartTime: pgconv.TimeToPgtype(slot.Start()),
		EndTime:   pgconv.TimeToPgtype(slot.End()),
		ExcludeID: pgconv.UUIDOrNullToPgtype(exclude),
	}
}
