package components

import (
	"stoodioz/internal/handler"
	"stoodioz/internal/handler/api"
	"stoodioz/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewWalletHandler,
		api.NewLabelHandler,
		middleware.NewTokenValidator,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
