package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
)

// maxErrorBody bounds how much of a failed response is read for its detail
const maxErrorBody = 64 << 10

// ClassifyRequest represents a request to the moderation service
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse is the raw response body. Pointer fields record presence
// so that missing keys can be told apart from zero values.
type ClassifyResponse struct {
	Routed             *bool    `json:"routed"`
	Reasoning          *string  `json:"reasoning"`
	ClassificationType *string  `json:"classification_type"`
	Classification     *string  `json:"classification"`
	Confidence         *float64 `json:"confidence"`
}

// ErrorResponse is the body of a non-success response. FastAPI validation
// errors carry a list in detail, so it is decoded lazily.
type ErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// ModerationClient is an HTTP client for the moderation service
type ModerationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewModerationClient creates a new moderation service client.
// A zero timeout leaves deadline enforcement to the caller's context.
func NewModerationClient(baseURL string, timeout time.Duration) *ModerationClient {
	return &ModerationClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the service base URL
func (c *ModerationClient) BaseURL() string {
	return c.baseURL
}

// Classify sends text for classification. Cancelling ctx aborts the request
// and closes its connection.
func (c *ModerationClient) Classify(ctx context.Context, text string) (*ClassifyResponse, error) {
	body, err := json.Marshal(ClassifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &service.ServiceError{
			StatusCode: resp.StatusCode,
			Detail:     readDetail(resp.Body),
		}
	}

	var result ClassifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}

	return &result, nil
}

// Health checks the moderation service root endpoint
func (c *ModerationClient) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service unhealthy: status %d", resp.StatusCode)
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// readDetail extracts a string detail from an error body, or "" when absent
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil || len(errResp.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(errResp.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
