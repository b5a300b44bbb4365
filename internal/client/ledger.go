package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"sliplens/internal/models"
	"sliplens/pkg/config"

	"go.uber.org/zap"
)

// RemoteError reports an unreachable or failing ledger API call. Pipeline
// stages that depend on remote data check for it explicitly instead of
// treating the response as usable.
type RemoteError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ledger request %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("ledger request %s returned status %d", e.Endpoint, e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// LedgerClient fetches read-only snapshots of the remote transaction history
// and category list used by one pipeline run.
type LedgerClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLedgerClient(cfg *config.LedgerConfig, logger *zap.Logger) *LedgerClient {
	return &LedgerClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// ListTransactions returns the transaction history. Only the metadata field
// of each entry is consumed downstream.
func (c *LedgerClient) ListTransactions(ctx context.Context) ([]models.LedgerTransaction, error) {
	var out []models.LedgerTransaction
	if err := c.getJSON(ctx, "/transactions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns the remote category list, sentinel element included.
func (c *LedgerClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := c.getJSON(ctx, "/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return &RemoteError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Endpoint: endpoint, Status: resp.StatusCode, Err: err}
	}
	return nil
}
