package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/infrastructure/redis"
)

const appTokenKey = "ebay:app_token"

// AppTokenService obtains application tokens via the client_credentials
// grant. These carry no user context and serve Browse API reads that do not
// require a linked seller account.
type AppTokenService interface {
	GetAccessToken(ctx context.Context) (string, error)
}

type appTokenService struct {
	config     *config.Config
	redis      *redis.RedisClient
	client     *http.Client
	apiBaseURL string
	logger     *zap.Logger
}

func NewAppTokenService(cfg *config.Config, redisClient *redis.RedisClient, logger *zap.Logger) AppTokenService {
	apiBaseURL := productionAPIBaseURL
	if cfg.Ebay.Sandbox {
		apiBaseURL = sandboxAPIBaseURL
	}

	return &appTokenService{
		config: cfg,
		redis:  redisClient,
		client: &http.Client{
			Timeout: cfg.Ebay.Timeout,
		},
		apiBaseURL: apiBaseURL,
		logger:     logger,
	}
}

func (s *appTokenService) GetAccessToken(ctx context.Context) (string, error) {
	token, err := s.redis.Get(ctx, appTokenKey)
	if err == nil && token != "" {
		s.logger.Debug("Application token found in Redis")
		return token, nil
	}

	s.logger.Info("Application token not found, requesting a new one")

	return s.authenticate(ctx)
}

func (s *appTokenService) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", OAuthScope)

	tokenURL := s.apiBaseURL + "/identity/v1/oauth2/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.config.Ebay.AppID, s.config.Ebay.ClientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with ebay: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("application token request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	// Cache with a safety margin so Redis never hands out a token on the
	// edge of expiry.
	expiry := time.Duration(tokenResp.ExpiresIn-60) * time.Second
	if expiry <= 0 {
		expiry = time.Duration(tokenResp.ExpiresIn) * time.Second
	}
	if err := s.redis.Set(ctx, appTokenKey, tokenResp.AccessToken, expiry); err != nil {
		s.logger.Warn("Failed to cache application token", zap.Error(err))
	}

	s.logger.Info("eBay application authentication successful",
		zap.Int("expires_in", tokenResp.ExpiresIn),
	)

	return tokenResp.AccessToken, nil
}
