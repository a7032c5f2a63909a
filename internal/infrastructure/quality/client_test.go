package quality

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pantrywise/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualityForProducts_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/quality", r.URL.Path)
		assert.Equal(t, "p1,p2", r.URL.Query().Get("products"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products": [
			{"productId": "p1", "productName": "Oats", "quality": {"nutriscore": "a", "nova_group": 1}},
			{"productId": "p2", "productName": "Soda", "quality": "not an object"}
		]}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	products, err := client.QualityForProducts(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.NotNil(t, products[0].Quality.NutriScore)
	assert.Equal(t, "A", products[0].Quality.NutriScore.Grade)
	assert.Equal(t, 1, products[0].Quality.NovaGroup.Group)

	// Malformed blob degrades to neutral, never fails the request.
	require.NotNil(t, products[1].Quality)
	assert.Nil(t, products[1].Quality.NutriScore)
}

func TestQualityForProducts_EmptyInput(t *testing.T) {
	client := NewClient("test-key", "https://data.example.com")

	products, err := client.QualityForProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestQualityForProducts_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)

	_, err := client.QualityForProducts(context.Background(), []string{"p1"})
	assert.ErrorIs(t, err, domain.ErrPriceFeedFailure)
}
