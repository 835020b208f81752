//go:build unit

package availability_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoomDirectory struct {
	mock.Mock
}

func (m *MockRoomDirectory) RoomExists(ctx context.Context, roomID reservation.RoomID) (bool, error) {
	args := m.Called(ctx, roomID)
	return args.Bool(0), args.Error(1)
}

type MockConflictFinder struct {
	mock.Mock
}

func (m *MockConflictFinder) FindConflicts(ctx context.Context, roomID reservation.RoomID, slot reservation.TimeSlot, exclude uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, roomID, slot, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testSlot(t *testing.T) reservation.TimeSlot {
	t.Helper()
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	slot, err := reservation.NewTimeSlot(start, start.Add(time.Hour))
	require.NoError(t, err)
	return slot
}

func TestChecker_Check(t *testing.T) {
	ctx := context.Background()
	slot := testSlot(t)
	conflict := uuid.New()

	tests := []struct {
		name          string
		exists        bool
		dirErr        error
		conflicts     []uuid.UUID
		findErr       error
		wantErr       error
		wantAvailable bool
	}{
		{name: "free slot", exists: true, conflicts: nil, wantAvailable: true},
		{name: "overlapping reservation", exists: true, conflicts: []uuid.UUID{conflict}, wantAvailable: false},
		{name: "room missing", exists: false, wantErr: shared.ErrRoomNotFound},
		{name: "directory down proceeds", dirErr: errors.New("timeout"), conflicts: nil, wantAvailable: true},
		{name: "conflict query fails", exists: true, findErr: errors.New("db down"), wantErr: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := new(MockRoomDirectory)
			dir.On("RoomExists", ctx, reservation.RoomID(7)).Return(tt.exists, tt.dirErr)
			finder := new(MockConflictFinder)
			if tt.exists || tt.dirErr != nil {
				finder.On("FindConflicts", ctx, reservation.RoomID(7), slot, uuid.Nil).Return(tt.conflicts, tt.findErr)
			}

			result, err := availability.NewChecker(dir, discard).Check(ctx, finder, 7, slot, uuid.Nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, shared.ErrRoomNotFound) {
					assert.True(t, errs.Is(err, shared.ErrRoomNotFound))
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAvailable, result.Available)
			assert.NotNil(t, result.Conflicts)
			assert.Len(t, result.Conflicts, len(tt.conflicts))
			finder.AssertExpectations(t)
		})
	}
}

func TestChecker_NilDirectorySkipsVerification(t *testing.T) {
	finder := new(MockConflictFinder)
	slot := testSlot(t)
	finder.On("FindConflicts", mock.Anything, reservation.RoomID(3), slot, uuid.Nil).Return([]uuid.UUID{}, nil)

	result, err := availability.NewChecker(nil, nil).Check(context.Background(), finder, 3, slot, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestNewSlot(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	_, err := availability.NewSlot(start, start)
	assert.True(t, errs.Is(err, shared.ErrInvalidTimeSlot))
	assert.Equal(t, errs.ErrValidation, errs.KindOf(err))

	_, err = availability.NewSlot(start.Add(time.Hour), start)
	assert.True(t, errs.Is(err, shared.ErrInvalidTimeSlot))

	slot, err := availability.NewSlot(start, start.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, time.Minute, slot.Duration())
}
