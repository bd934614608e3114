package handler

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/usecase"
)

// NotificationHandler answers eBay's marketplace account-deletion
// notifications: the one-time challenge handshake on GET and the deletion
// events themselves on POST.
type NotificationHandler struct {
	usecase usecase.AuthUsecase
	config  *config.Config
	logger  *zap.Logger
}

func NewNotificationHandler(usecase usecase.AuthUsecase, cfg *config.Config, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		usecase: usecase,
		config:  cfg,
		logger:  logger,
	}
}

// accountDeletionNotification is the wire shape eBay posts.
type accountDeletionNotification struct {
	Notification struct {
		NotificationID string `json:"notificationId"`
		Data           struct {
			Username string `json:"username"`
			UserID   string `json:"userId"`
		} `json:"data"`
	} `json:"notification"`
}

// Challenge godoc
// @Summary Account-deletion endpoint verification
// @Description Answers eBay's challenge: sha256(challengeCode + verificationToken + endpoint)
// @Tags notifications
// @Param challenge_code query string true "Challenge code from eBay"
// @Success 200 {object} map[string]string
// @Router /webhook/ebay [get]
func (h *NotificationHandler) Challenge(c *fiber.Ctx) error {
	challengeCode := c.Query("challenge_code")
	if challengeCode == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "challenge_code is required"),
		)
	}

	endpoint := h.config.Ebay.RedirectURL
	hash := sha256.Sum256([]byte(challengeCode + h.config.Ebay.VerificationToken + endpoint))

	h.logger.Info("Answered account-deletion challenge")

	return c.JSON(fiber.Map{
		"challengeResponse": hex.EncodeToString(hash[:]),
	})
}

// Notify godoc
// @Summary Handle an account-deletion notification
// @Description Purges all stored data for the named eBay user
// @Tags notifications
// @Accept json
// @Success 200 {object} entity.APIResponse
// @Router /webhook/ebay [post]
func (h *NotificationHandler) Notify(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var notification accountDeletionNotification
	if err := c.BodyParser(&notification); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid notification body"),
		)
	}

	userID := notification.Notification.Data.UserID
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Notification missing user id"),
		)
	}

	h.logger.Info("Account deletion notification received",
		zap.String("notification_id", notification.Notification.NotificationID),
		zap.String("user_id", userID),
	)

	if err := h.usecase.PurgeAccount(ctx, userID); err != nil {
		h.logger.Error("Failed to purge account data", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to process notification"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Notification processed"))
}
