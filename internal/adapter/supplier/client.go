package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/bitloot/bitloot/internal/domain/errors"
)

// TooManyRequestsError represents rate limiting signal from the supplier.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations to acquire product keys from the supplier.
type Client interface {
	Acquire(ctx context.Context, productID string, quantity int) ([]string, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// request and response mirror the supplier JSON payloads.
type acquireRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type acquireResponse struct {
	Keys []string `json:"keys"`
}

// NewHTTPClient creates HTTP supplier client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse supplier url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("supplier url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Acquire pulls key material for a product. A 409 from the supplier means
// stock ran out; 429 carries a Retry-After hint.
func (c *HTTPClient) Acquire(ctx context.Context, productID string, quantity int) ([]string, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/keys/acquire")

	payload, err := json.Marshal(acquireRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data acquireResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return data.Keys, nil
	case http.StatusConflict:
		return nil, fmt.Errorf("supplier stock for %s: %w", productID, domainErrors.ErrOutOfStock)
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("supplier request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("supplier error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
