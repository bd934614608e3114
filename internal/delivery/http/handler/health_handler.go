package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ebay-manager/internal/config"
	"ebay-manager/internal/domain/entity"
)

// serviceVersion is reported by the liveness endpoint.
const serviceVersion = "0.2.0"

// HealthHandler serves the bare liveness probe. The OAuth-specific
// configuration echo lives on AuthHandler.Health.
type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Env       string    `json:"env"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(entity.NewSuccessResponse(HealthResponse{
		Status:    "healthy",
		Service:   h.config.App.Name,
		Env:       h.config.App.Env,
		Timestamp: time.Now(),
		Version:   serviceVersion,
	}, "Service is healthy"))
}
