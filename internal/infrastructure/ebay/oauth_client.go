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
	"ebay-manager/internal/domain/entity"
)

const (
	sandboxAPIBaseURL     = "https://api.sandbox.ebay.com"
	productionAPIBaseURL  = "https://api.ebay.com"
	sandboxAuthBaseURL    = "https://auth.sandbox.ebay.com"
	productionAuthBaseURL = "https://auth.ebay.com"

	// OAuthScope is the scope requested for seller logins.
	OAuthScope = "https://api.ebay.com/oauth/api_scope"

	// RefreshBuffer is the safety margin before actual expiry. A token inside
	// its final five minutes is treated as expired so it is never used for a
	// request that could outlive it.
	RefreshBuffer = 5 * time.Minute
)

// Token type hints accepted by the revocation endpoint.
const (
	AccessTokenHint  = "access_token"
	RefreshTokenHint = "refresh_token"
)

// tokenResponse is the wire shape of the eBay token endpoint.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"` // seconds
	RefreshToken     string `json:"refresh_token"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// userResponse is the wire shape of the commerce identity endpoint.
type userResponse struct {
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	AccountType string `json:"accountType"`
}

// Client handles all direct interaction with the eBay OAuth2 and identity
// endpoints on behalf of one registered application.
type Client interface {
	// BuildAuthURL constructs the authorization endpoint URL the seller is
	// redirected to. No side effects, no network call.
	BuildAuthURL(state string) string

	// ExchangeCode exchanges an authorization code for a token set.
	ExchangeCode(ctx context.Context, code string) (*entity.TokenSet, error)

	// RefreshToken obtains a fresh access token. When eBay omits a new
	// refresh token the prior one is carried forward unchanged.
	RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenSet, error)

	// GetUserInfo fetches the linked account identity for an access token.
	GetUserInfo(ctx context.Context, accessToken string) (*entity.EbayUser, error)

	// RevokeToken is best-effort: failures are logged and reported as false
	// so logout can still proceed locally.
	RevokeToken(ctx context.Context, token, tokenTypeHint string) bool
}

type oauthClient struct {
	config      *config.Config
	apiBaseURL  string
	authBaseURL string
	client      *http.Client
	logger      *zap.Logger
}

func NewOAuthClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if err := cfg.Ebay.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ebay configuration: %w", err)
	}

	apiBaseURL := productionAPIBaseURL
	authBaseURL := productionAuthBaseURL
	if cfg.Ebay.Sandbox {
		apiBaseURL = sandboxAPIBaseURL
		authBaseURL = sandboxAuthBaseURL
	}

	return &oauthClient{
		config:      cfg,
		apiBaseURL:  apiBaseURL,
		authBaseURL: authBaseURL,
		client: &http.Client{
			Timeout: cfg.Ebay.Timeout,
		},
		logger: logger,
	}, nil
}

func (c *oauthClient) BuildAuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.config.Ebay.AppID)
	// eBay requires the registered RuName here, not the callback URL.
	params.Set("redirect_uri", c.config.Ebay.RuName)
	params.Set("response_type", "code")
	params.Set("scope", OAuthScope)
	if state != "" {
		params.Set("state", state)
	}

	return c.authBaseURL + "/oauth2/authorize?" + params.Encode()
}

func (c *oauthClient) ExchangeCode(ctx context.Context, code string) (*entity.TokenSet, error) {
	c.logger.Info("Exchanging authorization code for tokens")

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.config.Ebay.RuName)

	resp, status, err := c.requestToken(ctx, form)
	if err != nil {
		c.logger.Error("Failed to exchange code for tokens",
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, &ExchangeError{StatusCode: status, Description: err.Error()}
	}

	now := time.Now()
	tokens := &entity.TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	c.logger.Info("Successfully exchanged code for tokens",
		zap.Int("expires_in", resp.ExpiresIn),
	)

	return tokens, nil
}

func (c *oauthClient) RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenSet, error) {
	c.logger.Info("Refreshing access token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("scope", OAuthScope)

	resp, status, err := c.requestToken(ctx, form)
	if err != nil {
		c.logger.Error("Failed to refresh access token",
			zap.Int("status", status),
			zap.Error(err),
		)
		return nil, &RefreshError{StatusCode: status, Description: err.Error()}
	}

	// eBay may not return a new refresh token; keep the old one.
	newRefreshToken := resp.RefreshToken
	if newRefreshToken == "" {
		newRefreshToken = refreshToken
	}

	now := time.Now()
	tokens := &entity.TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	c.logger.Info("Successfully refreshed access token",
		zap.Int("expires_in", resp.ExpiresIn),
	)

	return tokens, nil
}

func (c *oauthClient) GetUserInfo(ctx context.Context, accessToken string) (*entity.EbayUser, error) {
	c.logger.Info("Fetching user information from eBay")

	userURL := c.apiBaseURL + "/commerce/identity/v1/user/"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userURL, nil)
	if err != nil {
		return nil, &IdentityError{Description: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &IdentityError{Description: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &IdentityError{StatusCode: resp.StatusCode, Description: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Failed to fetch user information",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(respBody)),
		)
		return nil, &IdentityError{
			StatusCode:  resp.StatusCode,
			Description: fmt.Sprintf("status=%d, body=%s", resp.StatusCode, string(respBody)),
		}
	}

	var userResp userResponse
	if err := json.Unmarshal(respBody, &userResp); err != nil {
		return nil, &IdentityError{StatusCode: resp.StatusCode, Description: err.Error()}
	}
	if userResp.UserID == "" {
		return nil, &IdentityError{StatusCode: resp.StatusCode, Description: "identity response missing userId"}
	}

	now := time.Now()
	user := &entity.EbayUser{
		EbayUserID:  userResp.UserID,
		Username:    userResp.Username,
		Email:       userResp.Email,
		AccountType: userResp.AccountType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	c.logger.Info("Successfully fetched user information",
		zap.String("username", user.Username),
	)

	return user, nil
}

func (c *oauthClient) RevokeToken(ctx context.Context, token, tokenTypeHint string) bool {
	c.logger.Info("Revoking token", zap.String("token_type_hint", tokenTypeHint))

	form := url.Values{}
	form.Set("token", token)
	form.Set("token_type_hint", tokenTypeHint)

	revokeURL := c.apiBaseURL + "/identity/v1/oauth2/revoke"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("Failed to build revoke request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.config.Ebay.AppID, c.config.Ebay.ClientSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Failed to revoke token",
			zap.String("token_type_hint", tokenTypeHint),
			zap.Error(err),
		)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Failed to revoke token",
			zap.String("token_type_hint", tokenTypeHint),
			zap.Int("status", resp.StatusCode),
		)
		return false
	}

	c.logger.Info("Successfully revoked token", zap.String("token_type_hint", tokenTypeHint))
	return true
}

// requestToken performs the form-encoded, Basic-authenticated POST shared by
// the authorization_code and refresh_token grants.
func (c *oauthClient) requestToken(ctx context.Context, form url.Values) (*tokenResponse, int, error) {
	tokenURL := c.apiBaseURL + "/identity/v1/oauth2/token"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.config.Ebay.AppID, c.config.Ebay.ClientSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(respBody, &tokenResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to unmarshal token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		desc := tokenResp.ErrorDescription
		if desc == "" {
			desc = fmt.Sprintf("status=%d, body=%s", resp.StatusCode, string(respBody))
		}
		return nil, resp.StatusCode, fmt.Errorf("%s", desc)
	}

	if tokenResp.AccessToken == "" {
		return nil, resp.StatusCode, fmt.Errorf("token response missing access_token")
	}

	return &tokenResp, resp.StatusCode, nil
}

// IsExpired reports whether a token should no longer be used. The refresh
// buffer keeps a token from being issued within its final refresh window.
func IsExpired(expiresAt time.Time) bool {
	return time.Now().After(expiresAt.Add(-RefreshBuffer))
}
