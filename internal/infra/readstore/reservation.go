package readstore

import (
	"context"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/pkg/pgconv"
	"room-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReservationViewQueries interface {
	GetReservationByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Reservation, error)
	ListReservationsByRoom(ctx context.Context, db sqlc.DBTX, roomID int64) ([]sqlc.Reservation, error)
	ListReservationsByUser(ctx context.Context, db sqlc.DBTX, userID uuid.UUID) ([]sqlc.Reservation, error)
	FindConflictingReservationIDs(ctx context.Context, db sqlc.DBTX, arg sqlc.FindConflictingReservationIDsParams) ([]uuid.UUID, error)
}

type ReservationReadStore struct {
	queries ReservationViewQueries
	db      sqlc.DBTX
}

func NewReservationReadStore(queries ReservationViewQueries, db sqlc.DBTX) *ReservationReadStore {
	return &ReservationReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *ReservationReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	row, err := r.queries.GetReservationByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}

	return rowToReservationView(row), nil
}

func (r *ReservationReadStore) ListByRoom(ctx context.Context, roomID reservation.RoomID) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservationsByRoom(ctx, r.db, roomID.Int64())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by room", err)
	}
	return rowsToReservationViews(rows), nil
}

func (r *ReservationReadStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*queries.ReservationView, error) {
	rows, err := r.queries.ListReservationsByUser(ctx, r.db, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations by user", err)
	}
	return rowsToReservationViews(rows), nil
}

// FindConflicts runs outside any lock; the answer may be stale by the time a booking is attempted.
func (r *ReservationReadStore) FindConflicts(ctx context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error) {
	ids, err := r.queries.FindConflictingReservationIDs(ctx, r.db, sqlc.FindConflictingReservationIDsParams{
		RoomID:    roomID.Int64(),
		StartTime: pgconv.TimeToPgtype(slot.Start()),
		EndTime:   pgconv.TimeToPgtype(slot.End()),
		ExcludeID: pgconv.UUIDOrNullToPgtype(exclude),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find conflicting reservations", err)
	}
	return ids, nil
}

func rowsToReservationViews(rows []sqlc.Reservation) []*queries.ReservationView {
	result := make([]*queries.ReservationView, len(rows))
	for i, row := range rows {
		result[i] = rowToReservationView(row)
	}
	return result
}

func rowToReservationView(row sqlc.Reservation) *queries.ReservationView {
	return &queries.ReservationView{
		ID:        row.ID,
		RoomID:    row.RoomID,
		UserID:    row.UserID,
		StartTime: pgconv.TimeFromPgtype(row.StartTime),
		EndTime:   pgconv.TimeFromPgtype(row.EndTime),
		Status:    row.Status,
		CreatedAt: pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt: pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
