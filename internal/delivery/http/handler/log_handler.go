package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/domain/repository"
)

type LogHandler struct {
	repo   repository.APILogRepository
	logger *zap.Logger
}

func NewLogHandler(repo repository.APILogRepository, logger *zap.Logger) *LogHandler {
	return &LogHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetLogs godoc
// @Summary Recent marketplace API calls
// @Tags logs
// @Produce json
// @Param limit query int false "Max entries (default 100)"
// @Success 200 {object} entity.APIResponse
// @Router /api/ebay/logs [get]
func (h *LogHandler) GetLogs(c *fiber.Ctx) error {
	ctx := c.UserContext()

	limit := c.QueryInt("limit", 100)

	logs, err := h.repo.FindRecent(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to load API logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to load API logs"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(logs, "API logs retrieved successfully"))
}
