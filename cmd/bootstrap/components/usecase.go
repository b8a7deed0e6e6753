package components

import (
	"roomsense/internal/pkg/clock"
	"roomsense/internal/pkg/keymutex"
	"roomsense/internal/usecase"
	"roomsense/internal/usecase/commands"
	"roomsense/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

// The two keyed mutexes serialize booking writes: one keyed by user id
// (shared with the ban cascade), one keyed by room id.
var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		keymutex.New,
		fx.ResultTags(`name:"userLocks"`),
	),
	fx.Annotate(
		keymutex.New,
		fx.ResultTags(`name:"roomLocks"`),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewUserCommands,
		commands.NewRoomCommands,
		commands.NewSensorCommands,
		fx.Annotate(
			commands.NewBookingCommands,
			fx.ParamTags(``, ``, ``, `name:"userLocks"`, `name:"roomLocks"`),
		),
		fx.Annotate(
			commands.NewBanCommands,
			fx.ParamTags(``, ``, `name:"userLocks"`),
		),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewReservationQueries,
		queries.NewRoomQueries,
		queries.NewSensorQueries,
		queries.NewUserQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
