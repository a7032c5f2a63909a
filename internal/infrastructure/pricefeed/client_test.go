package pricefeed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pantrywise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) ClientConfig {
	return ClientConfig{
		APIKey:          "test-api-key",
		BaseURL:         baseURL,
		RecencyDays:     90,
		MaxCandidates:   100,
		RequestsPerHour: 360000, // effectively unlimited in tests
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient(testConfig("https://feed.example.com"))

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://feed.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "k", BaseURL: "https://feed.example.com"})

	assert.Equal(t, 90, client.recencyDays)
	assert.Equal(t, 100, client.maxCandidates)
}

func TestSetDebug(t *testing.T) {
	client := NewClient(testConfig("https://feed.example.com"))

	assert.False(t, client.debug)

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestPricesForProducts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/prices", r.URL.Path)
		assert.Equal(t, "p1,p2", r.URL.Query().Get("products"))
		assert.Equal(t, "90", r.URL.Query().Get("days"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("api_key"))

		resp := feedResponse{Prices: []PriceRecord{
			{
				ID:         "obs-1",
				ProductID:  "p1",
				StoreID:    "store-a",
				StoreName:  "Store A",
				Amount:     2.49,
				Currency:   "EUR",
				Unit:       "kg",
				RecordedAt: "2025-06-10T08:00:00Z",
			},
			{
				ID:         "obs-2",
				ProductID:  "p1",
				StoreID:    "store-b",
				StoreName:  "Store B",
				Amount:     1.99,
				Currency:   "EUR",
				Unit:       "kg",
				RecordedAt: "2025-06-12T08:00:00Z",
			},
			{
				ID:         "obs-3",
				ProductID:  "p2",
				StoreID:    "store-a",
				StoreName:  "Store A",
				Amount:     0.89,
				Currency:   "EUR",
				Unit:       "l",
				RecordedAt: "2025-06-14T08:00:00Z",
			},
		}}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	candidates, err := client.PricesForProducts(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)

	require.Len(t, candidates["p1"], 2)
	require.Len(t, candidates["p2"], 1)
	assert.Equal(t, "store-b", candidates["p1"][1].StoreID)
	assert.Equal(t, 1.99, candidates["p1"][1].Amount)
	assert.Equal(t, 2025, candidates["p2"][0].DateRecorded.Year())
}

func TestPricesForProducts_EmptyInput(t *testing.T) {
	client := NewClient(testConfig("https://feed.example.com"))

	candidates, err := client.PricesForProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestPricesForProducts_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(feedResponse{Prices: []PriceRecord{{
			ID: "obs-1", ProductID: "p1", StoreID: "s", StoreName: "S",
			Amount: 1, Currency: "EUR", Unit: "kg", RecordedAt: "2025-06-10T08:00:00Z",
		}}})
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	candidates, err := client.PricesForProducts(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, candidates["p1"], 1)
}

func TestPricesForProducts_GivesUpAfterThreeAttempts(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.PricesForProducts(context.Background(), []string{"p1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPriceFeedFailure)
	assert.Equal(t, 3, attempts)
}

func TestPricesForProducts_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.PricesForProducts(context.Background(), []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestPricesForProducts_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))

	_, err := client.PricesForProducts(context.Background(), []string{"p1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
