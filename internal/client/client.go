// Package client calls the FoodLens analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/foodlens/internal/domain"
)

// APIError is a non-200 response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("foodlens server returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("foodlens server returned status %d: %s", e.StatusCode, e.Message)
}

// Client has no request timeout. The server finishes every analysis it
// starts, so a call lasts until the response arrives or ctx is cancelled.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func New(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
}

// AnalyzeFood posts a captured image data URI.
func (c *Client) AnalyzeFood(ctx context.Context, image string) (*domain.FoodAnalysisResult, error) {
	return c.post(ctx, "/api/analyze-food", map[string]string{"image": image})
}

// SearchFood asks for the typical nutrition of a named food.
func (c *Client) SearchFood(ctx context.Context, foodName string) (*domain.FoodAnalysisResult, error) {
	return c.post(ctx, "/api/search-food", map[string]string{"foodName": foodName})
}

func (c *Client) post(ctx context.Context, path string, body any) (*domain.FoodAnalysisResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "path", path, "error", err)
		}
	}()

	c.logger.Debug("api call finished", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(raw, &errBody)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	var result domain.FoodAnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	result.Normalize()
	return &result, nil
}
