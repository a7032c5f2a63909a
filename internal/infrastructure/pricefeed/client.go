package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pantrywise/backend/internal/domain"
	"golang.org/x/time/rate"
)

// ClientConfig holds the price feed client configuration.
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	RecencyDays     int // observations older than this are not requested
	MaxCandidates   int // per-product row cap
	RequestsPerHour int
}

// Client fetches observed price candidates from the price feed API.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	baseURL       string
	recencyDays   int
	maxCandidates int
	rateLimiter   *rate.Limiter
	debug         bool
}

// NewClient creates a new price feed client.
func NewClient(config ClientConfig) *Client {
	recencyDays := config.RecencyDays
	if recencyDays <= 0 {
		recencyDays = 90
	}
	maxCandidates := config.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = 100
	}
	perHour := config.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:        config.APIKey,
		baseURL:       config.BaseURL,
		recencyDays:   recencyDays,
		maxCandidates: maxCandidates,
		rateLimiter:   limiter,
	}
}

// SetDebug toggles verbose request logging.
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// PricesForProducts fetches the recent price observations of the given
// products, capped per product, keyed by product id. Products with no
// observations are simply absent from the map.
func (c *Client) PricesForProducts(ctx context.Context, productIDs []string) (map[string][]domain.PriceCandidate, error) {
	if len(productIDs) == 0 {
		return map[string][]domain.PriceCandidate{}, nil
	}

	endpoint := fmt.Sprintf("%s/v1/prices", c.baseURL)
	params := url.Values{}
	params.Add("products", strings.Join(productIDs, ","))
	params.Add("days", strconv.Itoa(c.recencyDays))
	params.Add("limit", strconv.Itoa(c.maxCandidates))
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	// Retry up to 3 times for transient failures
	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[FEED] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if !sleepBackoff(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Printf("[FEED] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			if resp.StatusCode == http.StatusTooManyRequests {
				return nil, domain.ErrRateLimited
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, resp.StatusCode)
			if !sleepBackoff(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		var feedResp feedResponse
		if err := json.Unmarshal(body, &feedResp); err != nil {
			log.Printf("[FEED] JSON decode error: %v", err)
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		candidates := MapToCandidates(feedResp.Prices)
		if c.debug {
			log.Printf("[FEED] %d observations for %d products", len(feedResp.Prices), len(candidates))
		}
		return candidates, nil
	}

	log.Printf("[FEED] All retries failed for %d products", len(productIDs))
	return nil, lastErr
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PantryWise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedFailure, err)
	}

	return resp, nil
}

// exponentialBackoff returns the wait before retrying a failed attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500<<(attempt-1)) * time.Millisecond
}

// sleepBackoff waits out the backoff, returning false if the context ends first.
func sleepBackoff(ctx context.Context, attempt int) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(exponentialBackoff(attempt)):
		return true
	}
}
