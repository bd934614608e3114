package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/usecase"
)

type AuthHandler struct {
	usecase usecase.AuthUsecase
	config  *config.Config
	logger  *zap.Logger
}

func NewAuthHandler(usecase usecase.AuthUsecase, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		usecase: usecase,
		config:  cfg,
		logger:  logger,
	}
}

// Login godoc
// @Summary Initiate eBay OAuth flow
// @Description Returns the eBay authorization URL and a single-use state value
// @Tags auth
// @Produce json
// @Success 200 {object} entity.LoginSession
// @Failure 500 {object} entity.APIResponse
// @Router /api/ebay/auth/login [get]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	session, err := h.usecase.InitiateLogin(ctx)
	if err != nil {
		h.logger.Error("Failed to initiate OAuth flow", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to initiate OAuth flow"),
		)
	}

	// Flat shape kept for dashboard compatibility.
	return c.JSON(fiber.Map{
		"success": true,
		"authUrl": session.AuthURL,
		"state":   session.State,
	})
}

// Callback godoc
// @Summary OAuth callback from eBay
// @Description Completes the authorization-code flow and redirects back to the dashboard
// @Tags auth
// @Param code query string false "Authorization code"
// @Param state query string false "State issued at login"
// @Param error query string false "Error reported by eBay"
// @Success 302 "Redirect to dashboard"
// @Router /api/ebay/auth/callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	code := c.Query("code")
	state := c.Query("state")
	oauthErr := c.Query("error")

	if oauthErr != "" {
		h.logger.Error("OAuth error from eBay", zap.String("error", oauthErr))
		return h.redirectWithError(c, "OAuth error: "+oauthErr)
	}

	userID, err := h.usecase.HandleCallback(ctx, code, state)
	if err != nil {
		h.logger.Error("OAuth callback failed", zap.Error(err))
		return h.redirectWithError(c, err.Error())
	}

	redirectURL := h.config.App.ClientURL + "/ebay-auth?userId=" + url.QueryEscape(userID)
	return c.Redirect(redirectURL, fiber.StatusFound)
}

func (h *AuthHandler) redirectWithError(c *fiber.Ctx, message string) error {
	errorURL := h.config.App.ClientURL + "/ebay-auth?message=" + url.QueryEscape(message)
	return c.Redirect(errorURL, fiber.StatusFound)
}

// Tokens godoc
// @Summary Get a valid access token for a linked user
// @Description Returns the stored access token, refreshing it first when expired
// @Tags auth
// @Produce json
// @Param userId query string true "eBay user id"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Failure 401 {object} entity.APIResponse
// @Router /api/ebay/auth/tokens [get]
func (h *AuthHandler) Tokens(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "User ID is required"),
		)
	}

	tokens, err := h.usecase.GetValidToken(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotLinked):
			return c.Status(fiber.StatusNotFound).JSON(
				entity.NewErrorResponse("NOT_FOUND", "No tokens found for user"),
			)
		case errors.Is(err, usecase.ErrReauthRequired):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success":        false,
				"message":        "Token expired and refresh failed. Please re-authenticate.",
				"requiresReauth": true,
			})
		default:
			h.logger.Error("Failed to get tokens", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(
				entity.NewErrorResponse("INTERNAL_ERROR", "Failed to retrieve tokens"),
			)
		}
	}

	return c.JSON(entity.NewSuccessResponse(fiber.Map{
		"accessToken": tokens.AccessToken,
		"expiresAt":   tokens.ExpiresAt,
		"isExpired":   false,
	}, "Token retrieved successfully"))
}

// User godoc
// @Summary Get the linked account identity
// @Tags auth
// @Produce json
// @Param userId query string true "eBay user id"
// @Success 200 {object} entity.APIResponse
// @Failure 404 {object} entity.APIResponse
// @Router /api/ebay/auth/user [get]
func (h *AuthHandler) User(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "User ID is required"),
		)
	}

	user, err := h.usecase.GetLinkedUser(ctx, userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotLinked) {
			return c.Status(fiber.StatusNotFound).JSON(
				entity.NewErrorResponse("NOT_FOUND", "User not found"),
			)
		}
		h.logger.Error("Failed to get user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to retrieve user information"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(user, "User retrieved successfully"))
}

// LogoutRequest is the logout request body.
type LogoutRequest struct {
	UserID string `json:"userId"`
}

// Logout godoc
// @Summary Revoke tokens and unlink the account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Logout request"
// @Success 200 {object} entity.APIResponse
// @Failure 400 {object} entity.APIResponse
// @Router /api/ebay/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "Invalid request body"),
		)
	}

	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse("BAD_REQUEST", "User ID is required"),
		)
	}

	if err := h.usecase.Logout(ctx, req.UserID); err != nil {
		h.logger.Error("Logout failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse("INTERNAL_ERROR", "Failed to logout"),
		)
	}

	return c.JSON(entity.NewSuccessResponse(nil, "Logged out successfully"))
}

// Health godoc
// @Summary OAuth configuration echo
// @Description Reports which eBay credentials are configured, never their values
// @Tags auth
// @Produce json
// @Success 200 {object} entity.APIResponse
// @Router /api/ebay/auth/health [get]
func (h *AuthHandler) Health(c *fiber.Ctx) error {
	configured := func(v string) string {
		if v == "" {
			return "NOT SET"
		}
		return "SET"
	}

	return c.JSON(entity.NewSuccessResponse(fiber.Map{
		"appId":       configured(h.config.Ebay.AppID),
		"ruName":      configured(h.config.Ebay.RuName),
		"redirectUrl": configured(h.config.Ebay.RedirectURL),
		"sandbox":     h.config.Ebay.Sandbox,
	}, "eBay OAuth service is healthy"))
}
