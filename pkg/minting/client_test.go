package minting

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(context.Background(), config.MintingConfig{
		BaseURL:     server.URL,
		APIKey:      "test-key",
		HTTPTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	return client, server
}

func TestNewHTTPClientRequiresConfig(t *testing.T) {
	_, err := NewHTTPClient(context.Background(), config.MintingConfig{APIKey: "k"}, nil)
	require.Error(t, err)

	_, err = NewHTTPClient(context.Background(), config.MintingConfig{BaseURL: "https://mint"}, nil)
	require.Error(t, err)
}

func TestMintSubmitsJob(t *testing.T) {
	itemUUID := uuid.New()
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/mint", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req MintRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, itemUUID, req.ItemUUID)
		assert.Equal(t, "Rookie Card", req.Title)

		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job-42"})
	})

	jobID, err := client.Mint(context.Background(), MintRequest{
		Owner:       "0xabc",
		ItemUUID:    itemUUID,
		Title:       "Rookie Card",
		ImageFormat: "png",
		ImageData:   []byte{1, 2, 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "job-42", jobID)
}

func TestMintRequiresItemUUID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach server")
	})
	_, err := client.Mint(context.Background(), MintRequest{})
	require.Error(t, err)
}

func TestBurnLowercasesCollection(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req BurnRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0xdeadbeef", req.Collection)
		_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "burn-9"})
	})

	jobID, err := client.Burn(context.Background(), BurnRequest{
		ItemUUID:   uuid.New(),
		Collection: "0xDEADbeef",
		TokenID:    "7",
	})
	require.NoError(t, err)
	assert.Equal(t, "burn-9", jobID)
}

func TestSubmitSurfacesServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "mint backlog full", http.StatusServiceUnavailable)
	})
	_, err := client.Mint(context.Background(), MintRequest{ItemUUID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestSubmitRejectsEmptyJobID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})
	_, err := client.Burn(context.Background(), BurnRequest{ItemUUID: uuid.New()})
	require.Error(t, err)
}
