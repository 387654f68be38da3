package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/giftguide/backend/internal/domain"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps how much of a storefront response is read
const maxResponseBytes = 1 << 20

// ClientConfig holds tuning for the storefront client
type ClientConfig struct {
	Timeout   time.Duration
	RateLimit float64 // requests per second
	Burst     int
}

// Client handles communication with the storefront's AJAX cart API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	root        string
	rateLimiter *rate.Limiter
	debug       bool
}

// addResponse covers both the success and the error shape of cart/add.js
type addResponse struct {
	Status      json.RawMessage   `json:"status"`
	Message     string            `json:"message"`
	Description string            `json:"description"`
	Items       []domain.CartLine `json:"items"`
}

// NewClient creates a new storefront client. root is the storefront root
// path (Shopify.routes.root), e.g. "/" or "/en-ca/".
func NewClient(baseURL, root string, config ClientConfig) *Client {
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 2
	}
	if config.Burst <= 0 {
		config.Burst = 4
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		root:        NormalizeRoot(root),
		rateLimiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
	}
}

// NormalizeRoot makes sure the root path starts and ends with a slash
func NormalizeRoot(root string) string {
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root
}

// SetDebug toggles logging of request and response bodies
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...interface{}) {
	if c.debug {
		log.Printf("[Storefront] "+format, args...)
	}
}

// AddEndpoint returns the absolute cart/add.js URL
func (c *Client) AddEndpoint() string {
	return c.baseURL + c.root + "cart/add.js"
}

// AddItems posts the items to cart/add.js. A truthy "status" in the
// response is a business rejection; network and decoding problems are
// reported as ErrStorefrontUnavailable. The request is never retried.
func (c *Client) AddItems(ctx context.Context, request *domain.AddToCartRequest) (*domain.CartAddResponse, error) {
	if request == nil || len(request.Items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		log.Printf("[Storefront] Rate limiter error: %v", err)
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	c.debugLog("POST %s %s", c.AddEndpoint(), payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.AddEndpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "GiftGuide/1.0")
	if request.CartToken != "" {
		req.AddCookie(&http.Cookie{Name: "cart", Value: request.CartToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Storefront] Request error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorefrontUnavailable, err)
	}
	c.debugLog("response %d: %s", resp.StatusCode, body)

	var parsed addResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("[Storefront] JSON decode error (status %d): %v", resp.StatusCode, err)
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrStorefrontUnavailable, err)
	}

	if isTruthy(parsed.Status) {
		rejected := &domain.CartRejectedError{
			Status:      statusText(parsed.Status),
			Message:     parsed.Message,
			Description: parsed.Description,
		}
		log.Printf("[Storefront] Cart rejected: %v", rejected)
		return nil, rejected
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: status %d", domain.ErrStorefrontUnavailable, resp.StatusCode)
	}

	log.Printf("[Storefront] Added %d line(s)", len(parsed.Items))
	return &domain.CartAddResponse{Items: parsed.Items}, nil
}

// readLimitedBody reads at most limit bytes
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// isTruthy mirrors the storefront convention: any present value other than
// null, false, 0 or "" flags an error response
func isTruthy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}

	var value interface{}
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return false
	}

	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

func statusText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
