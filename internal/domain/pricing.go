package domain

import "time"

// Ingredient represents one line of a recipe: a product reference with the
// quantity the recipe calls for.
type Ingredient struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    float64 `json:"quantity"` // must be > 0
	Unit        string  `json:"unit"`
}

// PriceCandidate is one observed price of a product at a store at a point in
// time. DistanceKm and QualityScore are optional; nil means unknown.
type PriceCandidate struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"productId"`
	StoreID       string    `json:"storeId"`
	StoreName     string    `json:"storeName"`
	StoreLocation string    `json:"storeLocation,omitempty"`
	Amount        float64   `json:"amount"` // >= 0, in Currency per Unit
	Currency      string    `json:"currency"`
	Unit          string    `json:"unit"`
	DateRecorded  time.Time `json:"dateRecorded"`
	DistanceKm    *float64  `json:"distanceKm,omitempty"`
	QualityScore  *float64  `json:"qualityScore,omitempty"` // 0-100
	InStock       *bool     `json:"inStock,omitempty"`      // nil = unknown, treated as in stock
	Confidence    float64   `json:"confidence"`             // 0-1
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ScoringWeights holds the relative importance of price, quality and distance
// when ranking candidates. The weights are not required to sum to 1; scores
// are only compared between candidates of the same ingredient, so the
// absolute scale is irrelevant.
type ScoringWeights struct {
	Price    float64 `json:"priceWeight"`
	Quality  float64 `json:"qualityWeight"`
	Distance float64 `json:"distanceWeight"`
}

// DefaultScoringWeights are used when a user has no explicit preference.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Price: 0.6, Quality: 0.25, Distance: 0.15}
}

// UserPricingContext carries the per-user constraints and preferences that
// drive personalized candidate selection.
type UserPricingContext struct {
	UserID           string              `json:"userId"`
	UserLocation     *GeoPoint           `json:"userLocation,omitempty"`
	MaxDistanceKm    *float64            `json:"maxDistanceKm,omitempty"`
	FavoriteStoreIDs map[string]struct{} `json:"-"`
	ExcludedStoreIDs map[string]struct{} `json:"-"`
	PreferredBrands  []string            `json:"preferredBrands,omitempty"`
	Weights          ScoringWeights      `json:"weights"`
}

// IngredientPricingBreakdown is the per-ingredient slice of a pricing result:
// either Missing is true, or Selected holds the chosen price with up to three
// Alternatives and the cost of the quantity the recipe needs.
type IngredientPricingBreakdown struct {
	IngredientID  string           `json:"ingredientId"`
	ProductID     string           `json:"productId"`
	ProductName   string           `json:"productName"`
	Missing       bool             `json:"missing"`
	Selected      *PriceCandidate  `json:"selected,omitempty"`
	Alternatives  []PriceCandidate `json:"alternatives,omitempty"`
	EstimatedCost float64          `json:"estimatedCost"`
}

// StoreTotal aggregates the cost of all ingredients sourced from one store
// under the optimized-mix selection.
type StoreTotal struct {
	StoreID   string  `json:"storeId"`
	StoreName string  `json:"storeName"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Pricing modes.
const (
	PricingModeUser   = "user"
	PricingModePublic = "public"
)

// PricingTotals holds the aggregate cost figures of a pricing run. PerStore
// is populated only in user mode.
type PricingTotals struct {
	OptimizedMix float64      `json:"optimizedMix"`
	PerServing   float64      `json:"perServing"`
	PerStore     []StoreTotal `json:"perStore,omitempty"`
}

// RecipePricingResult is the full outcome of pricing a recipe.
type RecipePricingResult struct {
	Mode          string                       `json:"mode"` // "user" or "public"
	Totals        PricingTotals                `json:"totals"`
	Breakdown     []IngredientPricingBreakdown `json:"breakdown"`
	MissingCount  int                          `json:"missingCount"`
	DataTimestamp time.Time                    `json:"dataTimestamp"`
	Confidence    float64                      `json:"confidence"` // 0-1
}
