//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"
	"room-booking/internal/infra"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func confirmed(t *testing.T, room int64, from, to time.Duration) *reservation.Reservation {
	t.Helper()
	slot, err := reservation.NewTimeSlot(base.Add(from), base.Add(to))
	require.NoError(t, err)
	res := reservation.NewReservation(reservation.RoomID(room), uuid.New(), slot, base)
	require.NoError(t, res.Confirm(base))
	return res
}

func TestWithin_DiscardsStagedWritesOnError(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	boom := errors.New("boom")

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Reservations().Create(ctx, confirmed(t, 1, 0, time.Hour)))
		return boom
	})
	require.ErrorIs(t, err, boom)

	views, err := store.Reservations().ListByRoom(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCreate_RejectsOverlapLikeExclusionConstraint(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, confirmed(t, 1, 0, time.Hour))
	}))

	err := store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, confirmed(t, 1, 30*time.Minute, 2*time.Hour))
	})
	assert.True(t, infra.IsKind(err, infra.KindConflict))

	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Reservations().Create(ctx, confirmed(t, 1, time.Hour, 2*time.Hour))
	}))

	views, err := store.Reservations().ListByRoom(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.True(t, views[0].StartTime.Before(views[1].StartTime))
}

func TestDeleteByRoom(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Reservations()
		if err := repo.Create(ctx, confirmed(t, 1, 0, time.Hour)); err != nil {
			return err
		}
		return repo.Create(ctx, confirmed(t, 2, 0, time.Hour))
	}))

	var deleted int64
	require.NoError(t, store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		deleted, err = tx.Reservations().DeleteByRoom(ctx, 1)
		return err
	}))
	assert.Equal(t, int64(1), deleted)

	left, err := store.Reservations().ListByRoom(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestUserCreate_UniqueUsername(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	name, err := user.NewUsername("alice")
	require.NoError(t, err)

	create := func() error {
		return store.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Users().Create(ctx, user.NewUser(name, "hash", user.RoleUser, base))
		})
	}
	require.NoError(t, create())
	assert.True(t, infra.IsKind(create(), infra.KindDuplicateKey))

	view, hash, err := store.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
	assert.Equal(t, "user", view.Role)
}
