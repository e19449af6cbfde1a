package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rmirandacr/vaultkeeper-backend/internal/vaultings"
	pkgerrors "github.com/rmirandacr/vaultkeeper-backend/pkg/errors"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/types"
)

type stubConfirmer struct {
	mintCalls []uuid.UUID
	burnCalls []uuid.UUID
	mintConf  vaultings.MintConfirmation
	burnConf  vaultings.BurnConfirmation
	mintErr   error
	burnErr   error
}

func (s *stubConfirmer) ConfirmMint(_ context.Context, itemUUID uuid.UUID, conf vaultings.MintConfirmation) error {
	s.mintCalls = append(s.mintCalls, itemUUID)
	s.mintConf = conf
	return s.mintErr
}

func (s *stubConfirmer) ConfirmBurn(_ context.Context, itemUUID uuid.UUID, conf vaultings.BurnConfirmation) error {
	s.burnCalls = append(s.burnCalls, itemUUID)
	s.burnConf = conf
	return s.burnErr
}

type stubGuard struct {
	seen     map[string]bool
	released []string
}

func newStubGuard() *stubGuard {
	return &stubGuard{seen: map[string]bool{}}
}

func (s *stubGuard) CheckAndMark(_ context.Context, jobID string) (bool, error) {
	if s.seen[jobID] {
		return true, nil
	}
	s.seen[jobID] = true
	return false, nil
}

func (s *stubGuard) Release(_ context.Context, jobID string) error {
	s.released = append(s.released, jobID)
	delete(s.seen, jobID)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "webhooks-test", Output: io.Discard})
}

func postWebhook(t *testing.T, handler http.HandlerFunc, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/minting", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestMintingWebhookAppliesMintedEvent(t *testing.T) {
	confirmer := &stubConfirmer{}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	itemUUID := uuid.New()
	resp := postWebhook(t, handler, map[string]any{
		"job_id":       "mint-job-7",
		"type":         "minted",
		"item_uuid":    itemUUID.String(),
		"chain_id":     137,
		"collection":   "0xabc",
		"token_id":     "42",
		"mint_tx_hash": "0xdeadbeef",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, confirmer.mintCalls, 1)
	require.Equal(t, itemUUID, confirmer.mintCalls[0])
	require.Equal(t, int64(137), confirmer.mintConf.ChainID)
	require.Equal(t, "0xabc", confirmer.mintConf.Collection)
	require.Equal(t, "42", confirmer.mintConf.TokenID)
	require.Equal(t, "0xdeadbeef", confirmer.mintConf.MintTxHash)
	require.Empty(t, guard.released)
}

func TestMintingWebhookAppliesBurnedEvent(t *testing.T) {
	confirmer := &stubConfirmer{}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	itemUUID := uuid.New()
	resp := postWebhook(t, handler, map[string]any{
		"job_id":       "burn-job-3",
		"type":         "burned",
		"item_uuid":    itemUUID.String(),
		"burn_tx_hash": "0xfeed",
	})

	require.Equal(t, http.StatusOK, resp.Code)
	require.Len(t, confirmer.burnCalls, 1)
	require.Equal(t, "0xfeed", confirmer.burnConf.BurnTxHash)
}

func TestMintingWebhookDeduplicatesByJobID(t *testing.T) {
	confirmer := &stubConfirmer{}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	payload := map[string]any{
		"job_id":    "mint-job-9",
		"type":      "minted",
		"item_uuid": uuid.NewString(),
	}

	first := postWebhook(t, handler, payload)
	require.Equal(t, http.StatusOK, first.Code)

	second := postWebhook(t, handler, payload)
	require.Equal(t, http.StatusOK, second.Code)

	var envelope types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(second.Body).Decode(&envelope))
	require.Equal(t, "duplicate", envelope.Data.(map[string]any)["status"])
	require.Len(t, confirmer.mintCalls, 1)
}

func TestMintingWebhookReleasesKeyOnFailure(t *testing.T) {
	confirmer := &stubConfirmer{
		mintErr: pkgerrors.New(pkgerrors.CodeStateConflict, "vaulting not minting"),
	}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	resp := postWebhook(t, handler, map[string]any{
		"job_id":    "mint-job-11",
		"type":      "minted",
		"item_uuid": uuid.NewString(),
	})

	require.Equal(t, http.StatusConflict, resp.Code)
	require.Equal(t, []string{"mint-job-11"}, guard.released)
}

func TestMintingWebhookRejectsQueueOnlyEventType(t *testing.T) {
	confirmer := &stubConfirmer{}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	resp := postWebhook(t, handler, map[string]any{
		"job_id":    "mint-job-13",
		"type":      "to_mint",
		"item_uuid": uuid.NewString(),
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Empty(t, confirmer.mintCalls)
	require.Equal(t, []string{"mint-job-13"}, guard.released)
}

func TestMintingWebhookRejectsUnknownEventType(t *testing.T) {
	confirmer := &stubConfirmer{}
	guard := newStubGuard()
	handler := MintingWebhook(confirmer, guard, testLogger())

	resp := postWebhook(t, handler, map[string]any{
		"job_id":    "mint-job-15",
		"type":      "exploded",
		"item_uuid": uuid.NewString(),
	})

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Empty(t, guard.seen)
}
