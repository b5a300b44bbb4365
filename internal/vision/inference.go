package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"sliplens/internal/models"
	"sliplens/pkg/config"

	"go.uber.org/zap"
)

// InferenceClient talks to the reconstruction model server. It implements
// the scorer capability used by the anomaly filter: the server returns the
// autoencoder's reconstruction of the input and the reconstruction error is
// computed here.
type InferenceClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.Mutex
	ready bool
}

type reconstructResponse struct {
	Data []float32 `json:"data"`
}

func NewInferenceClient(cfg *config.InferenceConfig, logger *zap.Logger) *InferenceClient {
	return &InferenceClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Load verifies the model server is reachable and marks the client ready.
// Until Load succeeds, Score fails with ErrModelUnavailable.
func (c *InferenceClient) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ready {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reach model server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server health check returned status %d", resp.StatusCode)
	}

	c.ready = true
	c.logger.Info("Anomaly model server ready", zap.String("base_url", c.baseURL))
	return nil
}

// Score sends the preprocessed tensor to the model server and returns the
// mean squared error between the input and its reconstruction.
func (c *InferenceClient) Score(ctx context.Context, t *Tensor) (float64, error) {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	if !ready {
		return 0, models.ErrModelUnavailable
	}

	body, err := json.Marshal(t)
	if err != nil {
		return 0, fmt.Errorf("encode tensor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/reconstruct", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build reconstruct request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("call model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("model server returned status %d", resp.StatusCode)
	}

	var rec reconstructResponse
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return 0, fmt.Errorf("decode reconstruction: %w", err)
	}

	return MSE(t.Data, rec.Data)
}
