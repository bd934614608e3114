package server

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/delivery/http/router"
	"ebay-manager/internal/usecase"
)

func NewServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	r *router.Router,
	authUsecase usecase.AuthUsecase,
	logger *zap.Logger,
) error {
	app := r.Setup()

	janitorDone := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", cfg.App.Port)
			logger.Info("Starting HTTP server",
				zap.String("address", addr),
				zap.String("env", cfg.App.Env),
			)

			go func() {
				if err := app.Listen(addr); err != nil {
					logger.Error("Failed to start server", zap.Error(err))
				}
			}()

			go runTokenJanitor(authUsecase, cfg.OAuth.CleanupInterval(), janitorDone, logger)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down HTTP server")
			close(janitorDone)
			return app.Shutdown()
		},
	})

	return nil
}

// runTokenJanitor periodically sweeps token rows whose expiry passed the
// refresh buffer. Advisory only; expiry is checked on every read path.
func runTokenJanitor(authUsecase usecase.AuthUsecase, interval time.Duration, done <-chan struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := authUsecase.CleanupExpiredTokens(ctx); err != nil {
				logger.Warn("Expired token cleanup failed", zap.Error(err))
			}
			cancel()
		}
	}
}
