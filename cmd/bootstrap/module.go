package bootstrap

import (
	"room-booking/cmd/bootstrap/components"
	"room-booking/internal/pkg/clock"
	"room-booking/migrations"

	"go.uber.org/fx"
)

var commonModule = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	fx.Provide(clock.NewRealClock),
	DBModule,
	JWTModule,
	components.PersistenceModule,
	ServerModule,
)

var UserServiceModule = fx.Options(
	commonModule,
	MigrationModule(migrations.User, "user", "schema_migrations_user"),
	components.UserUseCaseModule,
	components.UserHandlerModule,
	components.AdminSeedModule,
)

var ReservationServiceModule = fx.Options(
	commonModule,
	MigrationModule(migrations.Reservation, "reservation", "schema_migrations_reservation"),
	components.RoomDirectoryModule,
	components.ReservationUseCaseModule,
	components.RoomEventsModule,
	components.ReservationHandlerModule,
)
