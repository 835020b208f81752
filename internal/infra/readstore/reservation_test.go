//go:build unit

package readstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/infra"
	"room-booking/internal/infra/readstore"
	sqlc "room-booking/internal/infra/sqlc/generated"
	readstoremock "room-booking/internal/mock/readstore"
	"room-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	errDBConnectionLost = errors.New("database connection lost")
	start               = time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
)

func reservationRow(id uuid.UUID, roomID int64, offset time.Duration) sqlc.Reservation {
	return sqlc.Reservation{
		ID:        id,
		RoomID:    roomID,
		UserID:    uuid.New(),
		StartTime: pgconv.TimeToPgtype(start.Add(offset)),
		EndTime:   pgconv.TimeToPgtype(start.Add(offset + time.Hour)),
		Status:    "confirmed",
		CreatedAt: pgconv.TimeToPgtype(start.Add(-24 * time.Hour)),
		UpdatedAt: pgconv.TimeToPgtype(start.Add(-24 * time.Hour)),
	}
}

// =============================================================================
// FindByID Tests
// =============================================================================

func TestReservationReadStore_FindByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	testCases := []struct {
		name       string
		row        sqlc.Reservation
		mockErr    error
		expectKind infra.RepositoryErrorKind
	}{
		{name: "success: reservation found", row: reservationRow(id, 7, 0)},
		{name: "error: reservation not found", mockErr: pgx.ErrNoRows, expectKind: infra.KindNotFound},
		{name: "error: database error", mockErr: errDBConnectionLost, expectKind: infra.KindDBFailure},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			q := readstoremock.NewMockReservationViewQueries(ctrl)
			q.EXPECT().GetReservationByID(ctx, gomock.Any(), id).Return(tc.row, tc.mockErr)

			view, err := readstore.NewReservationReadStore(q, nil).FindByID(ctx, id)
			if tc.expectKind != "" {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tc.expectKind))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, view.ID)
			assert.Equal(t, int64(7), view.RoomID)
			assert.Equal(t, "confirmed", view.Status)
			assert.True(t, view.StartTime.Equal(start))
		})
	}
}

// =============================================================================
// List Tests
// =============================================================================

func TestReservationReadStore_ListByRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps query order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockReservationViewQueries(ctrl)
		first, second := uuid.New(), uuid.New()
		q.EXPECT().ListReservationsByRoom(ctx, gomock.Any(), int64(7)).
			Return([]sqlc.Reservation{reservationRow(first, 7, 0), reservationRow(second, 7, time.Hour)}, nil)

		views, err := readstore.NewReservationReadStore(q, nil).ListByRoom(ctx, reservation.RoomID(7))
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, first, views[0].ID)
		assert.Equal(t, second, views[1].ID)
	})

	t.Run("empty room returns empty slice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockReservationViewQueries(ctrl)
		q.EXPECT().ListReservationsByRoom(ctx, gomock.Any(), int64(8)).Return(nil, nil)

		views, err := readstore.NewReservationReadStore(q, nil).ListByRoom(ctx, reservation.RoomID(8))
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		q := readstoremock.NewMockReservationViewQueries(ctrl)
		q.EXPECT().ListReservationsByRoom(ctx, gomock.Any(), int64(7)).Return(nil, errDBConnectionLost)

		_, err := readstore.NewReservationReadStore(q, nil).ListByRoom(ctx, reservation.RoomID(7))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestReservationReadStore_ListByUser(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	q := readstoremock.NewMockReservationViewQueries(ctrl)
	userID := uuid.New()
	row := reservationRow(uuid.New(), 3, 0)
	row.UserID = userID
	q.EXPECT().ListReservationsByUser(ctx, gomock.Any(), userID).Return([]sqlc.Reservation{row}, nil)

	views, err := readstore.NewReservationReadStore(q, nil).ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, userID, views[0].UserID)
}

func TestReservationReadStore_FindConflicts(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	q := readstoremock.NewMockReservationViewQueries(ctrl)
	slot, err := reservation.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)
	conflict := uuid.New()

	q.EXPECT().FindConflictingReservationIDs(ctx, gomock.Any(), sqlc.FindConflictingReservationIDsParams{
		RoomID:    7,
		StartTime: pgconv.TimeToPgtype(start),
		EndTime:   pgconv.TimeToPgtype(start.Add(time.Hour)),
		ExcludeID: pgconv.UUIDOrNullToPgtype(uuid.Nil),
	}).Return([]uuid.UUID{conflict}, nil)

	ids, err := readstore.NewReservationReadStore(q, nil).FindConflicts(ctx, 7, slot, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{conflict}, ids)
}
