package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rmirandacr/vaultkeeper-backend/pkg/enums"
)

func TestRequireActorRejectsWrongActor(t *testing.T) {
	handler := RequireActor(enums.ActorTypeAdmin, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActorType(req.Context(), string(enums.ActorTypeUser)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireActorRejectsMissingActor(t *testing.T) {
	handler := RequireActor(enums.ActorTypeAdmin, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireActorAllowsMatchingActor(t *testing.T) {
	handler := RequireActor(enums.ActorTypeAdmin, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActorType(req.Context(), string(enums.ActorTypeAdmin)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", resp.Code)
	}
}
