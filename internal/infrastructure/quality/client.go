package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pantrywise/backend/internal/domain"
)

// Client fetches raw quality blobs from the product data API and parses
// them into domain structures.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new quality data client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// productRecord is the wire shape of one product's quality payload.
// The quality field is deliberately left raw; ParseBlob owns its shape.
type productRecord struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quality     json.RawMessage `json:"quality"`
}

type qualityResponse struct {
	Products []productRecord `json:"products"`
}

// QualityForProducts fetches and parses quality data for the given product
// ids. Products unknown to the API are simply absent from the result;
// malformed quality blobs degrade to neutral data rather than failing.
func (c *Client) QualityForProducts(ctx context.Context, productIDs []string) ([]domain.ProductWithQuality, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/v1/quality", c.baseURL)
	params := url.Values{}
	params.Add("products", strings.Join(productIDs, ","))
	params.Add("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s?%s", endpoint, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PantryWise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceFeedFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("[QUALITY] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrPriceFeedFailure, resp.StatusCode)
	}

	var parsed qualityResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	products := make([]domain.ProductWithQuality, 0, len(parsed.Products))
	for _, record := range parsed.Products {
		products = append(products, domain.ProductWithQuality{
			ProductID:   record.ProductID,
			ProductName: record.ProductName,
			Quality:     ParseBlob(record.Quality),
		})
	}
	return products, nil
}
