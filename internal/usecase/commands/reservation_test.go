//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"room-booking/internal/domain/reservation"
	"room-booking/internal/domain/user"
	"room-booking/internal/infra/memstore"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
	day     = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type staticDirectory map[reservation.RoomID]bool

func (d staticDirectory) RoomExists(_ context.Context, roomID reservation.RoomID) (bool, error) {
	return d[roomID], nil
}

type ReservationCommandsSuite struct {
	suite.Suite
	store   *memstore.Store
	clock   *clock.MockClock
	metrics *metrics.Metrics
	cmds    commands.ReservationCommands
	owner   uuid.UUID
}

func TestReservationCommandsSuite(t *testing.T) {
	suite.Run(t, new(ReservationCommandsSuite))
}

func (s *ReservationCommandsSuite) SetupTest() {
	s.store = memstore.New()
	s.clock = clock.NewMockClock(day.Add(-24 * time.Hour))
	s.metrics = metrics.New()
	dir := staticDirectory{7: true, 8: true}
	s.cmds = commands.NewReservationCommands(s.store, availability.NewChecker(dir, discard), s.clock, s.metrics, discard)
	s.owner = uuid.New()
}

func (s *ReservationCommandsSuite) create(room int64, start, end time.Time) (*reservation.Reservation, error) {
	return s.cmds.Create(context.Background(), commands.CreateReservationInput{
		RoomID: room, UserID: s.owner, StartTime: start, EndTime: end,
	})
}

func (s *ReservationCommandsSuite) ownerActor() reservation.Actor {
	return reservation.Actor{UserID: s.owner, Role: user.RoleUser}
}

func (s *ReservationCommandsSuite) TestCreate_ConflictAndAdjacent() {
	first, err := s.create(7, at(10, 0), at(11, 0))
	s.Require().NoError(err)
	s.Equal(reservation.StatusConfirmed, first.Status())

	_, err = s.create(7, at(10, 30), at(11, 30))
	s.True(errs.Is(err, shared.ErrReservationConflict))

	_, err = s.create(7, at(11, 0), at(12, 0))
	s.NoError(err)

	_, err = s.create(8, at(10, 30), at(11, 30))
	s.NoError(err, "other rooms are independent")

	s.Equal(3.0, testutil.ToFloat64(s.metrics.ReservationsCreated))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ReservationConflicts))
}

func (s *ReservationCommandsSuite) TestCreate_Validation() {
	tests := []struct {
		name    string
		room    int64
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{name: "end before start", room: 7, start: at(11, 0), end: at(10, 0), wantErr: shared.ErrInvalidTimeSlot},
		{name: "empty interval", room: 7, start: at(10, 0), end: at(10, 0), wantErr: shared.ErrInvalidTimeSlot},
		{name: "zero room", room: 0, start: at(10, 0), end: at(11, 0), wantErr: shared.ErrInvalidRoomID},
		{name: "unknown room", room: 99, start: at(10, 0), end: at(11, 0), wantErr: shared.ErrRoomNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.create(tt.room, tt.start, tt.end)
			s.True(errs.Is(err, tt.wantErr), "got %v", err)
		})
	}

	views, err := s.store.Reservations().ListByRoom(context.Background(), 7)
	s.Require().NoError(err)
	s.Empty(views)
}

func (s *ReservationCommandsSuite) TestCancel() {
	res, err := s.create(7, at(10, 0), at(11, 0))
	s.Require().NoError(err)

	_, err = s.cmds.Cancel(context.Background(), res.ID(), reservation.Actor{UserID: uuid.New(), Role: user.RoleUser})
	s.True(errs.Is(err, shared.ErrForbidden))

	_, err = s.cmds.Cancel(context.Background(), uuid.New(), s.ownerActor())
	s.True(errs.Is(err, shared.ErrReservationNotFound))

	cancelled, err := s.cmds.Cancel(context.Background(), res.ID(), s.ownerActor())
	s.Require().NoError(err)
	s.Equal(reservation.StatusCancelled, cancelled.Status())

	_, err = s.cmds.Cancel(context.Background(), res.ID(), s.ownerActor())
	s.True(errs.Is(err, shared.ErrInvalidTransition))

	// A cancelled reservation no longer blocks its slot.
	_, err = s.create(7, at(10, 0), at(11, 0))
	s.NoError(err)
}

func (s *ReservationCommandsSuite) TestCancel_ByAdmin() {
	res, err := s.create(7, at(10, 0), at(11, 0))
	s.Require().NoError(err)

	cancelled, err := s.cmds.Cancel(context.Background(), res.ID(), reservation.Actor{UserID: uuid.New(), Role: user.RoleAdmin})
	s.Require().NoError(err)
	s.Equal(reservation.StatusCancelled, cancelled.Status())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ReservationsCancelled))
}

func (s *ReservationCommandsSuite) TestReschedule() {
	res, err := s.create(7, at(10, 0), at(11, 0))
	s.Require().NoError(err)
	_, err = s.create(7, at(12, 0), at(13, 0))
	s.Require().NoError(err)

	s.clock.Add(time.Minute)
	moved, err := s.cmds.Reschedule(context.Background(), res.ID(), s.ownerActor(), at(10, 30), at(11, 30))
	s.Require().NoError(err, "overlapping its own old slot is allowed")
	s.True(moved.TimeSlot().Start().Equal(at(10, 30)))
	s.True(moved.UpdatedAt().After(moved.CreatedAt()))

	_, err = s.cmds.Reschedule(context.Background(), res.ID(), s.ownerActor(), at(11, 30), at(12, 30))
	s.True(errs.Is(err, shared.ErrReservationConflict))

	_, err = s.cmds.Reschedule(context.Background(), res.ID(), reservation.Actor{UserID: uuid.New(), Role: user.RoleUser}, at(14, 0), at(15, 0))
	s.True(errs.Is(err, shared.ErrForbidden))

	_, err = s.cmds.Reschedule(context.Background(), res.ID(), s.ownerActor(), at(15, 0), at(14, 0))
	s.True(errs.Is(err, shared.ErrInvalidTimeSlot))

	_, err = s.cmds.Cancel(context.Background(), res.ID(), s.ownerActor())
	s.Require().NoError(err)
	_, err = s.cmds.Reschedule(context.Background(), res.ID(), s.ownerActor(), at(14, 0), at(15, 0))
	s.True(errs.Is(err, shared.ErrInvalidTransition))
}

func TestCreate_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	store := memstore.New()
	cmds := commands.NewReservationCommands(store, availability.NewChecker(nil, discard), clock.NewRealClock(), metrics.New(), discard)

	const workers = 8
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			_, err := cmds.Create(context.Background(), commands.CreateReservationInput{
				RoomID: 5, UserID: uuid.New(), StartTime: at(9, 0), EndTime: at(10, 0),
			})
			results <- err
		}()
	}

	wins := 0
	for i := 0; i < workers; i++ {
		err := <-results
		if err == nil {
			wins++
			continue
		}
		assert.True(t, errs.Is(err, shared.ErrReservationConflict))
	}
	require.Equal(t, 1, wins)
}
