package components

import (
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/jwt"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"
	"tablebook/internal/usecase/reminder"
	"tablebook/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		commands.NewAvailabilityResolver,
		queries.NewReservationQueries,
		NewAuthCommands,
		NewReservationCommands,
	),
)

func NewAuthCommands(cfg config.Config, jwtService *jwt.Service) commands.AuthCommands {
	return commands.NewAuthCommands(cfg.Admin, jwtService)
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	resolver *commands.AvailabilityResolver,
	reservationQueries queries.ReservationQueries,
	scheduler reminder.Scheduler,
	notifier commands.AdminNotifier,
	cfg config.Config,
	clk clock.Clock,
) commands.ReservationCommands {
	return commands.NewReservationCommands(
		uow,
		resolver,
		reservationQueries,
		scheduler,
		notifier,
		cfg.Venue,
		clk,
	)
}
