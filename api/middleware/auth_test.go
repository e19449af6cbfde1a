package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/auth"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Output: io.Discard})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "vaultkeeper", ExpirationMinutes: 10}
	handler := Auth(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "vaultkeeper", ExpirationMinutes: 10}
	handler := Auth(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSeedsContextFromClaims(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "vaultkeeper", ExpirationMinutes: 60}
	userUUID := uuid.New()
	token := mintTestToken(t, cfg, userUUID, enums.ActorTypeAdmin)

	var captured struct {
		user   string
		actor  string
		source string
	}
	handler := Auth(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.user = UserUUIDFromContext(r.Context())
		captured.actor = ActorTypeFromContext(r.Context())
		captured.source = AuthSourceFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if captured.user != userUUID.String() {
		t.Fatalf("expected user %s got %s", userUUID, captured.user)
	}
	if captured.actor != string(enums.ActorTypeAdmin) {
		t.Fatalf("expected actor admin got %s", captured.actor)
	}
	if captured.source != cfg.Issuer {
		t.Fatalf("expected source %s got %s", cfg.Issuer, captured.source)
	}
}

func TestAuthRejectsWrongIssuer(t *testing.T) {
	mintCfg := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 60}
	token := mintTestToken(t, mintCfg, uuid.New(), enums.ActorTypeUser)

	cfg := config.JWTConfig{Secret: "secret", Issuer: "vaultkeeper", ExpirationMinutes: 60}
	handler := Auth(cfg, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userUUID uuid.UUID, actor enums.ActorType) string {
	t.Helper()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserUUID: userUUID,
		Actor:    actor,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
