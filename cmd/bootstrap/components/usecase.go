package components

import (
	"room-booking/internal/pkg/password"
	"room-booking/internal/usecase"
	"room-booking/internal/usecase/availability"
	"room-booking/internal/usecase/commands"
	"room-booking/internal/usecase/queries"

	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var UserUseCaseModule = fx.Module("usecase/user",
	userReadstoreModule,
	usecaseValidatorsModule,
	fx.Provide(
		func() *password.Hasher {
			return password.NewHasher(bcrypt.DefaultCost)
		},
		commands.NewAuthCommands,
		queries.NewUserQueries,
	),
)

var ReservationUseCaseModule = fx.Module("usecase/reservation",
	reservationReadstoreModule,
	usecaseValidatorsModule,
	fx.Provide(
		availability.NewChecker,
		commands.NewReservationCommands,
		commands.NewRoomEventCommands,
		queries.NewReservationQueries,
	),
)
