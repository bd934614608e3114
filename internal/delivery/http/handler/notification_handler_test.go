package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ebay-manager/internal/config"
	"ebay-manager/internal/usecase"
)

func notificationApp(uc usecase.AuthUsecase) (*fiber.App, *config.Config) {
	cfg := &config.Config{
		Ebay: config.EbayConfig{
			VerificationToken: "verify-token-0123456789",
			RedirectURL:       "https://example.com/webhook/ebay",
		},
	}
	h := NewNotificationHandler(uc, cfg, zap.NewNop())

	app := fiber.New()
	app.Get("/webhook/ebay", h.Challenge)
	app.Post("/webhook/ebay", h.Notify)
	return app, cfg
}

func TestChallengeResponseHash(t *testing.T) {
	app, cfg := notificationApp(&fakeAuthUsecase{})

	resp, err := app.Test(httptest.NewRequest("GET", "/webhook/ebay?challenge_code=chal123", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		ChallengeResponse string `json:"challengeResponse"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	sum := sha256.Sum256([]byte("chal123" + cfg.Ebay.VerificationToken + cfg.Ebay.RedirectURL))
	if want := hex.EncodeToString(sum[:]); body.ChallengeResponse != want {
		t.Errorf("challengeResponse = %q, want %q", body.ChallengeResponse, want)
	}
}

func TestChallengeMissingCode(t *testing.T) {
	app, _ := notificationApp(&fakeAuthUsecase{})

	resp, err := app.Test(httptest.NewRequest("GET", "/webhook/ebay", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestNotifyPurgesAccount(t *testing.T) {
	uc := &fakeAuthUsecase{}
	app, _ := notificationApp(uc)

	body := `{"notification":{"notificationId":"n1","data":{"username":"seller1","userId":"u1"}}}`
	req := httptest.NewRequest("POST", "/webhook/ebay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(uc.purged) != 1 || uc.purged[0] != "u1" {
		t.Errorf("purged = %v, want [u1]", uc.purged)
	}
}

func TestNotifyMissingUserID(t *testing.T) {
	app, _ := notificationApp(&fakeAuthUsecase{})

	req := httptest.NewRequest("POST", "/webhook/ebay", strings.NewReader(`{"notification":{}}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}
