package repository

import (
	"go.uber.org/fx"

	"ebay-manager/internal/domain/repository"
	"ebay-manager/internal/infrastructure/httpclient"
)

var Module = fx.Module("repository",
	fx.Provide(NewTokenRepository),
	fx.Provide(NewStateRepository),
	fx.Provide(NewAPILogRepository),
	fx.Provide(NewListingRepository),
	fx.Provide(func(r repository.APILogRepository) httpclient.APILogSaver { return r }),
)
