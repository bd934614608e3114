package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/infrastructure/ebay"
)

// StatusError is returned for non-2xx upstream responses so callers can
// branch on the marketplace status code.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ebay api request failed: status=%d, message=%s", e.StatusCode, e.Message)
}

// APILogSaver persists a record of each outbound marketplace call.
type APILogSaver interface {
	Save(ctx context.Context, log *entity.APILog) error
}

// HTTPClient performs authenticated marketplace API reads using the
// application token.
type HTTPClient interface {
	Get(ctx context.Context, path string, result interface{}) error
}

type httpClient struct {
	client      *http.Client
	baseURL     string
	appTokens   ebay.AppTokenService
	apiLogSaver APILogSaver
	logger      *zap.Logger
}

func NewHTTPClient(cfg *config.Config, appTokens ebay.AppTokenService, apiLogSaver APILogSaver, logger *zap.Logger) HTTPClient {
	baseURL := "https://api.ebay.com"
	if cfg.Ebay.Sandbox {
		baseURL = "https://api.sandbox.ebay.com"
	}

	return &httpClient{
		client: &http.Client{
			Timeout: cfg.Ebay.Timeout,
		},
		baseURL:     baseURL,
		appTokens:   appTokens,
		apiLogSaver: apiLogSaver,
		logger:      logger,
	}
}

func (c *httpClient) Get(ctx context.Context, path string, result interface{}) error {
	accessToken, err := c.appTokens.GetAccessToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to get application token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		c.saveLog(ctx, path, http.MethodGet, 0, duration)
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.saveLog(ctx, path, http.MethodGet, resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("eBay API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return &StatusError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

func (c *httpClient) saveLog(ctx context.Context, endpoint, method string, status int, duration int64) {
	if c.apiLogSaver == nil {
		return
	}

	log := &entity.APILog{
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: status,
		Duration:   duration,
		CreatedAt:  time.Now(),
	}

	if err := c.apiLogSaver.Save(ctx, log); err != nil {
		c.logger.Warn("Failed to save API log", zap.Error(err))
	}
}
