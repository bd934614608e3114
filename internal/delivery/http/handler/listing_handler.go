package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/usecase"
)

type ListingHandler struct {
	usecase usecase.ListingUsecase
	logger  *zap.Logger
}

func NewListingHandler(usecase usecase.ListingUsecase, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		usecase: usecase,
		logger:  logger,
	}
}

// GetListing godoc
// @Summary Look up a marketplace listing
// @Description Fetch a single listing from the eBay Browse API
// @Tags listings
// @Produce json
// @Param id path string true "eBay item id"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/ebay/listings/{id} [get]
func (h *ListingHandler) GetListing(c *fiber.Ctx) error {
	ctx := c.UserContext()

	itemID := c.Params("id")
	if itemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Item ID is required"),
		)
	}

	listing, err := h.usecase.GetListing(ctx, itemID)
	if err != nil {
		h.logger.Error("Failed to fetch listing", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to fetch listing"),
		)
	}

	if listing == nil {
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse("LISTING_NOT_FOUND", "Listing not found"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(listing, "Listing retrieved successfully"))
}
