//go:build integration

package uow_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"room-booking/internal/infra/db"
	"room-booking/internal/infra/readstore"
	sqlc "room-booking/internal/infra/sqlc/generated"
	"room-booking/internal/infra/uow"
	"room-booking/internal/pkg/clock"
	"room-booking/internal/pkg/errs"
	"room-booking/internal/pkg/metrics"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/shared"
	"room-booking/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

type PostgresUoWSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	cmds      commands.ReservationCommands
	events    commands.RoomEventCommands
	reads     *readstore.ReservationReadStore
}

func TestPostgresUoWSuite(t *testing.T) {
	suite.Run(t, new(PostgresUoWSuite))
}

func (s *PostgresUoWSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("reservations"),
		postgres.WithUsername("test"),
		postgres.WithPassword("testpass"),
		postgres.BasicWaitStrategies(),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)
	s.Require().NoError(db.Migrate(s.pool, migrations.Reservation, "reservation", "schema_migrations_reservation"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := sqlc.New()
	u := uow.NewPostgresUoW(s.pool, q, logger)
	m := metrics.New()
	s.cmds = commands.NewReservationCommands(u, availability.NewChecker(nil, logger), clock.NewRealClock(), m, logger)
	s.events = commands.NewRoomEventCommands(u, m, logger)
	s.reads = readstore.NewReservationReadStore(q, s.pool)
}

func (s *PostgresUoWSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(testcontainers.TerminateContainer(s.container))
	}
}

func (s *PostgresUoWSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE reservations")
	s.Require().NoError(err)
}

func (s *PostgresUoWSuite) TestBookThenConflictThenAdjacent() {
	ctx := context.Background()
	base := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()

	_, err := s.cmds.Create(ctx, commands.CreateReservationInput{RoomID: 7, UserID: userID, StartTime: base, EndTime: base.Add(time.Hour)})
	s.Require().NoError(err)

	_, err = s.cmds.Create(ctx, commands.CreateReservationInput{RoomID: 7, UserID: userID, StartTime: base.Add(30 * time.Minute), EndTime: base.Add(90 * time.Minute)})
	s.True(errs.Is(err, shared.ErrReservationConflict))

	_, err = s.cmds.Create(ctx, commands.CreateReservationInput{RoomID: 7, UserID: userID, StartTime: base.Add(time.Hour), EndTime: base.Add(2 * time.Hour)})
	s.Require().NoError(err)

	views, err := s.reads.ListByRoom(ctx, 7)
	s.Require().NoError(err)
	s.Len(views, 2)

	deleted, err := s.events.DeleteRoomReservations(ctx, 7)
	s.Require().NoError(err)
	s.Equal(int64(2), deleted)

	views, err = s.reads.ListByRoom(ctx, 7)
	s.Require().NoError(err)
	s.Empty(views)
}

func (s *PostgresUoWSuite) TestConcurrentBookingsOfSameSlot() {
	ctx := context.Background()
	base := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.cmds.Create(ctx, commands.CreateReservationInput{
				RoomID: 9, UserID: uuid.New(), StartTime: base, EndTime: base.Add(time.Hour),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errs.Is(err, shared.ErrReservationConflict):
				conflicts++
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(1, succeeded)
	s.Equal(workers-1, conflicts)
}

func (s *PostgresUoWSuite) TestExclusionConstraintBacksTheLock() {
	ctx := context.Background()
	start := time.Date(2026, 9, 3, 10, 0, 0, 0, time.UTC)
	insert := `INSERT INTO reservations (id, room_id, user_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, 3, $2, $3, $4, 'confirmed', now(), now())`

	_, err := s.pool.Exec(ctx, insert, uuid.New(), uuid.New(), start, start.Add(time.Hour))
	require.NoError(s.T(), err)
	_, err = s.pool.Exec(ctx, insert, uuid.New(), uuid.New(), start.Add(time.Minute), start.Add(2*time.Hour))
	s.Error(err)
}
