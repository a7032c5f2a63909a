// Package preferences provides PreferenceProvider implementations.
// The real user-preference store lives in the main application; this
// package carries the fallback provider the pricing service uses until a
// user service is wired in.
package preferences

import (
	"context"

	"github.com/pantrywise/backend/internal/domain"
)

// DefaultProvider returns a pricing context with the documented default
// weights and no constraints for every user.
type DefaultProvider struct {
	weights domain.ScoringWeights
}

// NewDefaultProvider creates a provider serving the given weights.
// Zero weights fall back to the documented defaults.
func NewDefaultProvider(weights domain.ScoringWeights) *DefaultProvider {
	if weights == (domain.ScoringWeights{}) {
		weights = domain.DefaultScoringWeights()
	}
	return &DefaultProvider{weights: weights}
}

// PricingContext returns an unconstrained context for the user.
func (p *DefaultProvider) PricingContext(ctx context.Context, userID string) (*domain.UserPricingContext, error) {
	return &domain.UserPricingContext{
		UserID:  userID,
		Weights: p.weights,
	}, nil
}
