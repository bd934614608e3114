package main

import (
	"go.uber.org/fx"

	"ebay-manager/internal/config"
	deliveryhttp "ebay-manager/internal/delivery/http"
	"ebay-manager/internal/infrastructure/database"
	"ebay-manager/internal/infrastructure/ebay"
	"ebay-manager/internal/infrastructure/httpclient"
	"ebay-manager/internal/infrastructure/logger"
	"ebay-manager/internal/infrastructure/redis"
	"ebay-manager/internal/infrastructure/repository"
	"ebay-manager/internal/server"
	"ebay-manager/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		ebay.Module,
		httpclient.Module,
		repository.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
