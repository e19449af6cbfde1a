package minting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/config"
	"github.com/rmirandacr/vaultkeeper-backend/pkg/logger"
)

// MintRequest carries everything the minting service needs to issue a
// custody token for an item.
type MintRequest struct {
	Owner       string            `json:"owner"`
	ItemUUID    uuid.UUID         `json:"item_uuid"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	ImageFormat string            `json:"image_format"`
	ImageData   []byte            `json:"image_data"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// BurnRequest asks the minting service to destroy the custody token.
type BurnRequest struct {
	ItemUUID   uuid.UUID `json:"item_uuid"`
	Collection string    `json:"collection"`
	TokenID    string    `json:"token_id"`
}

// Client is the narrow surface the orchestrator consumes. Both calls are
// fire-and-request; completion arrives asynchronously through the vaulting
// update callback.
type Client interface {
	Mint(ctx context.Context, req MintRequest) (string, error)
	Burn(ctx context.Context, req BurnRequest) (string, error)
}

// HTTPClient talks to the minting service over its JSON API.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var (
	errBaseURLRequired = errors.New("minting base url is required")
	errAPIKeyRequired  = errors.New("minting api key is required")
)

// NewHTTPClient initializes the minting client once with the configured
// endpoint and credentials.
func NewHTTPClient(ctx context.Context, cfg config.MintingConfig, logg *logger.Logger) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}

	if logg != nil {
		logg.Info(ctx, "minting client initialized")
	}

	return &HTTPClient{
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}, nil
}

type jobResponse struct {
	JobID string `json:"job_id"`
}

// Mint submits a mint job and returns the job id assigned by the service.
func (c *HTTPClient) Mint(ctx context.Context, req MintRequest) (string, error) {
	if req.ItemUUID == uuid.Nil {
		return "", errors.New("item uuid is required")
	}
	return c.submit(ctx, "/v1/mint", req)
}

// Burn submits a burn job and returns the job id assigned by the service.
func (c *HTTPClient) Burn(ctx context.Context, req BurnRequest) (string, error) {
	if req.ItemUUID == uuid.Nil {
		return "", errors.New("item uuid is required")
	}
	req.Collection = strings.ToLower(strings.TrimSpace(req.Collection))
	return c.submit(ctx, "/v1/burn", req)
}

func (c *HTTPClient) submit(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding %s request: %w", path, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building %s request: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling minting service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("minting service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding minting response: %w", err)
	}
	if decoded.JobID == "" {
		return "", errors.New("minting service returned an empty job id")
	}
	return decoded.JobID, nil
}
