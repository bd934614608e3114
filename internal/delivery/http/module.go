package http

import (
	"go.uber.org/fx"

	"ebay-manager/internal/delivery/http/handler"
	"ebay-manager/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewAuthHandler,
		handler.NewListingHandler,
		handler.NewHealthHandler,
		handler.NewNotificationHandler,
		handler.NewLogHandler,
		router.NewRouter,
	),
)
