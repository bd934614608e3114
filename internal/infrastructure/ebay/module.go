package ebay

import "go.uber.org/fx"

var Module = fx.Module("ebay",
	fx.Provide(NewOAuthClient),
	fx.Provide(NewAppTokenService),
)
