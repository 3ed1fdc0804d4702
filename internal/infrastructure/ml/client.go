package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"FakeNewsDetector/internal/domain"
	"FakeNewsDetector/internal/ports"
)

// maxErrorBody caps how much of a failure response is read for a detail message.
const maxErrorBody = 64 << 10

// Client talks to the external classification service.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

var _ ports.Predictor = (*Client)(nil)

// Health is the payload of the service root endpoint.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewClient creates a reusable HTTP client; timeout <= 0 disables the deadline.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    httpClient,
	}
}

// BaseURL returns the resolved service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict posts the text to /predict and returns a validated result.
// Every failure is a *domain.ServiceError carrying a displayable message.
func (c *Client) Predict(ctx context.Context, text string) (domain.PredictionResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return domain.PredictionResult{}, serviceError(0, "", fmt.Errorf("marshal payload: %w", err))
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return domain.PredictionResult{}, serviceError(0, "", fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.PredictionResult{}, serviceError(0, domain.TimeoutMessage, fmt.Errorf("do request: %w", err))
		}
		return domain.PredictionResult{}, serviceError(0, "", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail := readDetail(resp.Body)
		return domain.PredictionResult{}, serviceError(resp.StatusCode, detail, fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.PredictionResult{}, serviceError(resp.StatusCode, domain.TimeoutMessage, fmt.Errorf("decode response: %w", err))
		}
		return domain.PredictionResult{}, serviceError(resp.StatusCode, "", fmt.Errorf("%w: decode response: %v", domain.ErrInvalidResponse, err))
	}

	result, err := payload.toResult()
	if err != nil {
		return domain.PredictionResult{}, serviceError(resp.StatusCode, "", err)
	}

	return result, nil
}

// predictResponse keeps missing fields distinguishable from zero values.
type predictResponse struct {
	Label       *string  `json:"label"`
	Probability *float64 `json:"probability"`
}

func (p predictResponse) toResult() (domain.PredictionResult, error) {
	if p.Label == nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: missing label", domain.ErrInvalidResponse)
	}
	if p.Probability == nil {
		return domain.PredictionResult{}, fmt.Errorf("%w: missing probability", domain.ErrInvalidResponse)
	}

	result := domain.PredictionResult{Label: domain.Label(*p.Label), Probability: *p.Probability}
	if err := result.Validate(); err != nil {
		return domain.PredictionResult{}, err
	}
	return result, nil
}

// Health probes the service root endpoint.
func (c *Client) Health(ctx context.Context) (Health, error) {
	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", http.NoBody)
	if err != nil {
		return Health{}, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Health{}, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var health Health
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return Health{}, fmt.Errorf("decode response: %w", err)
	}

	return health, nil
}

func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// readDetail extracts a non-empty string "detail" field from a JSON error body, verbatim.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

func serviceError(status int, message string, cause error) *domain.ServiceError {
	if message == "" {
		message = domain.FallbackMessage
	}
	return &domain.ServiceError{Status: status, Message: message, Err: cause}
}
