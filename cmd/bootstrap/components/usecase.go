package components

import (
	"stoodioz/internal/domain/booking"
	"stoodioz/internal/pkg/clock"
	"stoodioz/internal/pkg/config"
	"stoodioz/internal/usecase/commands"
	"stoodioz/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
		queries.NewWalletQueries,
		queries.NewLabelQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewBookingUseCase,
		commands.NewCompletionUseCase,
	),
)

func NewPriceCalculator(cfg config.Config) *booking.Calculator {
	return booking.NewCalculator(cfg.Pricing.ServiceFeePercentage, cfg.Pricing.MaxSessionHours)
}
