package domain

import (
	"context"
	"time"
)

// PriceProvider returns observed price candidates per product id.
// Implementations apply their own recency window and row cap; the pricing
// engine treats whatever it receives as the complete candidate set.
type PriceProvider interface {
	PricesForProducts(ctx context.Context, productIDs []string) (map[string][]PriceCandidate, error)
}

// QualityProvider returns parsed quality data per product id.
type QualityProvider interface {
	QualityForProducts(ctx context.Context, productIDs []string) ([]ProductWithQuality, error)
}

// PreferenceProvider returns the pricing context of a user
// (location, distance budget, favorite/excluded stores, weights).
type PreferenceProvider interface {
	PricingContext(ctx context.Context, userID string) (*UserPricingContext, error)
}

// PricingCache caches public pricing results. User-mode results are
// preference-dependent and are never cached.
type PricingCache interface {
	Get(ctx context.Context, key string) (*RecipePricingResult, error)
	Set(ctx context.Context, key string, result *RecipePricingResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
