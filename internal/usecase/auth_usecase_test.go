package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"ebay-manager/internal/domain/entity"
	"ebay-manager/internal/infrastructure/ebay"
)

type fakeClient struct {
	builtState    string
	exchangeCode  string
	exchangeResp  *entity.TokenSet
	exchangeErr   error
	refreshCalls  int
	refreshToken  string
	refreshResp   *entity.TokenSet
	refreshErr    error
	userInfoResp  *entity.EbayUser
	userInfoErr   error
	revokedHints  []string
	revokedTokens []string
}

func (f *fakeClient) BuildAuthURL(state string) string {
	f.builtState = state
	return "https://auth.sandbox.ebay.com/oauth2/authorize?state=" + state
}

func (f *fakeClient) ExchangeCode(ctx context.Context, code string) (*entity.TokenSet, error) {
	f.exchangeCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	resp := *f.exchangeResp
	return &resp, nil
}

func (f *fakeClient) RefreshToken(ctx context.Context, refreshToken string) (*entity.TokenSet, error) {
	f.refreshCalls++
	f.refreshToken = refreshToken
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	resp := *f.refreshResp
	return &resp, nil
}

func (f *fakeClient) GetUserInfo(ctx context.Context, accessToken string) (*entity.EbayUser, error) {
	if f.userInfoErr != nil {
		return nil, f.userInfoErr
	}
	resp := *f.userInfoResp
	return &resp, nil
}

func (f *fakeClient) RevokeToken(ctx context.Context, token, hint string) bool {
	f.revokedTokens = append(f.revokedTokens, token)
	f.revokedHints = append(f.revokedHints, hint)
	return false // revocation failures must not break logout
}

type fakeTokenRepo struct {
	tokens     map[string]*entity.TokenSet
	users      map[string]*entity.EbayUser
	saveLogins int
	saveTokens int
	findErr    error
	saveErr    error
	deleteErr  error
	expired    int64
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		tokens: make(map[string]*entity.TokenSet),
		users:  make(map[string]*entity.EbayUser),
	}
}

func (f *fakeTokenRepo) SaveTokens(ctx context.Context, userID string, tokens *entity.TokenSet) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveTokens++
	copied := *tokens
	f.tokens[userID] = &copied
	return nil
}

func (f *fakeTokenRepo) FindTokens(ctx context.Context, userID string) (*entity.TokenSet, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	tokens, ok := f.tokens[userID]
	if !ok {
		return nil, nil
	}
	copied := *tokens
	return &copied, nil
}

func (f *fakeTokenRepo) DeleteTokens(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tokens, userID)
	return nil
}

func (f *fakeTokenRepo) SaveUser(ctx context.Context, user *entity.EbayUser) error {
	copied := *user
	f.users[user.EbayUserID] = &copied
	return nil
}

func (f *fakeTokenRepo) FindUser(ctx context.Context, ebayUserID string) (*entity.EbayUser, error) {
	user, ok := f.users[ebayUserID]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeTokenRepo) DeleteUser(ctx context.Context, ebayUserID string) error {
	delete(f.users, ebayUserID)
	return nil
}

func (f *fakeTokenRepo) SaveLogin(ctx context.Context, user *entity.EbayUser, tokens *entity.TokenSet) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saveLogins++
	copiedUser := *user
	copiedTokens := *tokens
	f.users[user.EbayUserID] = &copiedUser
	f.tokens[user.EbayUserID] = &copiedTokens
	return nil
}

func (f *fakeTokenRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return f.expired, nil
}

type fakeStateRepo struct {
	saved    map[string]bool
	saveErr  error
	consumed []string
}

func newFakeStateRepo() *fakeStateRepo {
	return &fakeStateRepo{saved: make(map[string]bool)}
}

func (f *fakeStateRepo) Save(ctx context.Context, state string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[state] = true
	return nil
}

func (f *fakeStateRepo) Consume(ctx context.Context, state string) (bool, error) {
	f.consumed = append(f.consumed, state)
	if f.saved[state] {
		delete(f.saved, state)
		return true, nil
	}
	return false, nil
}

func newTestUsecase(client *fakeClient, tokens *fakeTokenRepo, states *fakeStateRepo) AuthUsecase {
	return NewAuthUsecase(client, tokens, states, zap.NewNop())
}

func TestInitiateLogin(t *testing.T) {
	client := &fakeClient{}
	tokens := newFakeTokenRepo()
	states := newFakeStateRepo()
	uc := newTestUsecase(client, tokens, states)

	session, err := uc.InitiateLogin(context.Background())
	if err != nil {
		t.Fatalf("InitiateLogin: %v", err)
	}

	if len(session.State) != 32 {
		t.Errorf("state length = %d, want 32 hex chars", len(session.State))
	}
	if session.State != client.builtState {
		t.Error("auth URL built with a different state than returned")
	}
	if !states.saved[session.State] {
		t.Error("state was not persisted for callback validation")
	}
	if session.AuthURL == "" {
		t.Error("empty auth URL")
	}
}

func TestInitiateLoginGeneratesUniqueStates(t *testing.T) {
	client := &fakeClient{}
	uc := newTestUsecase(client, newFakeTokenRepo(), newFakeStateRepo())

	first, err := uc.InitiateLogin(context.Background())
	if err != nil {
		t.Fatalf("InitiateLogin: %v", err)
	}
	second, err := uc.InitiateLogin(context.Background())
	if err != nil {
		t.Fatalf("InitiateLogin: %v", err)
	}

	if first.State == second.State {
		t.Error("two login attempts produced the same state")
	}
}

func TestHandleCallbackMissingCode(t *testing.T) {
	uc := newTestUsecase(&fakeClient{}, newFakeTokenRepo(), newFakeStateRepo())

	_, err := uc.HandleCallback(context.Background(), "", "some-state")
	if !errors.Is(err, ErrMissingAuthCode) {
		t.Fatalf("err = %v, want ErrMissingAuthCode", err)
	}
}

func TestHandleCallbackUnknownState(t *testing.T) {
	client := &fakeClient{
		exchangeResp: &entity.TokenSet{AccessToken: "AT1"},
	}
	uc := newTestUsecase(client, newFakeTokenRepo(), newFakeStateRepo())

	_, err := uc.HandleCallback(context.Background(), "abc123", "never-issued")
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("err = %v, want ErrStateMismatch", err)
	}
	if client.exchangeCode != "" {
		t.Error("code was exchanged despite state mismatch")
	}
}

func TestHandleCallbackStateIsSingleUse(t *testing.T) {
	client := &fakeClient{
		exchangeResp: &entity.TokenSet{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			ExpiresAt:    time.Now().Add(2 * time.Hour),
		},
		userInfoResp: &entity.EbayUser{EbayUserID: "u1", Username: "seller1"},
	}
	states := newFakeStateRepo()
	states.saved["state1"] = true
	uc := newTestUsecase(client, newFakeTokenRepo(), states)

	if _, err := uc.HandleCallback(context.Background(), "abc123", "state1"); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if _, err := uc.HandleCallback(context.Background(), "abc123", "state1"); !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("second callback err = %v, want ErrStateMismatch", err)
	}
}

func TestHandleCallbackPersistsTokensAndUser(t *testing.T) {
	client := &fakeClient{
		exchangeResp: &entity.TokenSet{
			AccessToken:  "AT1",
			RefreshToken: "RT1",
			ExpiresAt:    time.Now().Add(2 * time.Hour),
		},
		userInfoResp: &entity.EbayUser{EbayUserID: "u1", Username: "seller1"},
	}
	tokens := newFakeTokenRepo()
	states := newFakeStateRepo()
	states.saved["state1"] = true
	uc := newTestUsecase(client, tokens, states)

	userID, err := uc.HandleCallback(context.Background(), "abc123", "state1")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if userID != "u1" {
		t.Errorf("userID = %q, want u1", userID)
	}
	if client.exchangeCode != "abc123" {
		t.Errorf("exchanged code = %q", client.exchangeCode)
	}
	if tokens.saveLogins != 1 {
		t.Errorf("saveLogins = %d, want 1 transactional write", tokens.saveLogins)
	}

	stored := tokens.tokens["u1"]
	if stored == nil || stored.AccessToken != "AT1" || stored.UserID != "u1" {
		t.Fatalf("stored tokens = %+v, want AT1 under u1", stored)
	}
	if tokens.users["u1"] == nil || tokens.users["u1"].Username != "seller1" {
		t.Fatalf("stored user = %+v, want seller1", tokens.users["u1"])
	}

	// Fresh token: no refresh on immediate use.
	got, err := uc.GetValidToken(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetValidToken: %v", err)
	}
	if got.AccessToken != "AT1" {
		t.Errorf("AccessToken = %q, want AT1", got.AccessToken)
	}
	if client.refreshCalls != 0 {
		t.Errorf("refreshCalls = %d, want 0", client.refreshCalls)
	}
}

func TestHandleCallbackIdentityFailurePersistsNothing(t *testing.T) {
	client := &fakeClient{
		exchangeResp: &entity.TokenSet{AccessToken: "AT1", RefreshToken: "RT1"},
		userInfoErr:  &ebay.IdentityError{StatusCode: 401, Description: "bad token"},
	}
	tokens := newFakeTokenRepo()
	uc := newTestUsecase(client, tokens, newFakeStateRepo())

	_, err := uc.HandleCallback(context.Background(), "abc123", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var identityErr *ebay.IdentityError
	if !errors.As(err, &identityErr) {
		t.Fatalf("error type = %T, want *ebay.IdentityError", err)
	}
	if tokens.saveLogins != 0 || len(tokens.tokens) != 0 {
		t.Error("tokens persisted despite identity fetch failure")
	}
}

func TestGetValidTokenNotLinked(t *testing.T) {
	uc := newTestUsecase(&fakeClient{}, newFakeTokenRepo(), newFakeStateRepo())

	_, err := uc.GetValidToken(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotLinked) {
		t.Fatalf("err = %v, want ErrNotLinked", err)
	}
}

func TestGetValidTokenRefreshesExpired(t *testing.T) {
	client := &fakeClient{
		refreshResp: &entity.TokenSet{
			AccessToken:  "AT2",
			RefreshToken: "RT2",
			ExpiresAt:    time.Now().Add(2 * time.Hour),
		},
	}
	tokens := newFakeTokenRepo()
	tokens.tokens["u1"] = &entity.TokenSet{
		UserID:       "u1",
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	uc := newTestUsecase(client, tokens, newFakeStateRepo())

	got, err := uc.GetValidToken(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetValidToken: %v", err)
	}

	if got.AccessToken != "AT2" {
		t.Errorf("AccessToken = %q, want refreshed AT2", got.AccessToken)
	}
	if client.refreshCalls != 1 {
		t.Errorf("refreshCalls = %d, want exactly 1", client.refreshCalls)
	}
	if client.refreshToken != "RT1" {
		t.Errorf("refreshed with %q, want the stored refresh token", client.refreshToken)
	}

	// New tokens persisted before returning.
	stored := tokens.tokens["u1"]
	if stored == nil || stored.AccessToken != "AT2" {
		t.Fatalf("stored tokens = %+v, want AT2 persisted", stored)
	}
}

func TestGetValidTokenRefreshFailureKeepsStaleRecord(t *testing.T) {
	client := &fakeClient{
		refreshErr: &ebay.RefreshError{Description: "connection refused"},
	}
	tokens := newFakeTokenRepo()
	stale := &entity.TokenSet{
		UserID:       "u1",
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresAt:    time.Now().Add(-time.Hour),
	}
	tokens.tokens["u1"] = stale
	uc := newTestUsecase(client, tokens, newFakeStateRepo())

	_, err := uc.GetValidToken(context.Background(), "u1")
	if !errors.Is(err, ErrReauthRequired) {
		t.Fatalf("err = %v, want ErrReauthRequired", err)
	}

	// A transient failure must not force a full re-link.
	kept := tokens.tokens["u1"]
	if kept == nil {
		t.Fatal("stale token record was deleted")
	}
	if kept.AccessToken != "AT1" || kept.RefreshToken != "RT1" {
		t.Errorf("stale record changed: %+v", kept)
	}
}

func TestLogoutRevokesAndDeletes(t *testing.T) {
	client := &fakeClient{}
	tokens := newFakeTokenRepo()
	tokens.tokens["u1"] = &entity.TokenSet{
		UserID:       "u1",
		AccessToken:  "AT1",
		RefreshToken: "RT1",
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	uc := newTestUsecase(client, tokens, newFakeStateRepo())

	if err := uc.Logout(context.Background(), "u1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if len(client.revokedHints) != 2 {
		t.Fatalf("revoked %d tokens, want 2", len(client.revokedHints))
	}
	if client.revokedHints[0] != ebay.AccessTokenHint || client.revokedHints[1] != ebay.RefreshTokenHint {
		t.Errorf("revoked hints = %v", client.revokedHints)
	}
	if _, ok := tokens.tokens["u1"]; ok {
		t.Error("token record still present after logout")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	client := &fakeClient{}
	tokens := newFakeTokenRepo()
	tokens.tokens["u1"] = &entity.TokenSet{UserID: "u1", AccessToken: "AT1", RefreshToken: "RT1"}
	uc := newTestUsecase(client, tokens, newFakeStateRepo())

	if err := uc.Logout(context.Background(), "u1"); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if err := uc.Logout(context.Background(), "u1"); err != nil {
		t.Fatalf("second logout: %v", err)
	}

	// Revocation only happens while tokens exist.
	if len(client.revokedHints) != 2 {
		t.Errorf("revoked %d tokens across both logouts, want 2", len(client.revokedHints))
	}
}

func TestGetLinkedUser(t *testing.T) {
	tokens := newFakeTokenRepo()
	tokens.users["u1"] = &entity.EbayUser{EbayUserID: "u1", Username: "seller1"}
	uc := newTestUsecase(&fakeClient{}, tokens, newFakeStateRepo())

	user, err := uc.GetLinkedUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetLinkedUser: %v", err)
	}
	if user.Username != "seller1" {
		t.Errorf("Username = %q", user.Username)
	}

	if _, err := uc.GetLinkedUser(context.Background(), "u2"); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("err = %v, want ErrNotLinked", err)
	}
}

func TestPurgeAccount(t *testing.T) {
	tokens := newFakeTokenRepo()
	tokens.tokens["u1"] = &entity.TokenSet{UserID: "u1"}
	tokens.users["u1"] = &entity.EbayUser{EbayUserID: "u1"}
	uc := newTestUsecase(&fakeClient{}, tokens, newFakeStateRepo())

	if err := uc.PurgeAccount(context.Background(), "u1"); err != nil {
		t.Fatalf("PurgeAccount: %v", err)
	}
	if len(tokens.tokens) != 0 || len(tokens.users) != 0 {
		t.Error("account data still present after purge")
	}
}
