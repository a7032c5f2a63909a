package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/pantrywise/backend/internal/domain"
)

const maxAlternatives = 3

// PricingServiceConfig holds configuration for the pricing service
type PricingServiceConfig struct {
	Weights            domain.ScoringWeights
	EnableDebugLogging bool

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

// PricingService computes recipe shopping costs from pre-fetched price
// candidates. It performs no I/O; callers supply the candidate map.
type PricingService struct {
	scorer     *CandidateScorer
	confidence *ConfidenceModel
	now        func() time.Time
}

// NewPricingService creates a pricing service with the given configuration.
func NewPricingService(config PricingServiceConfig) *PricingService {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &PricingService{
		scorer: NewCandidateScorer(ScorerConfig{
			Weights:            config.Weights,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		confidence: NewConfidenceModelAt(now),
		now:        now,
	}
}

// ComputeForUser prices a recipe for one user: each ingredient is
// independently sourced from its best-scoring store under the user's
// constraints. A missing price never aborts the run; the ingredient is
// flagged and the rest of the recipe is still priced.
func (s *PricingService) ComputeForUser(
	ctx context.Context,
	ingredients []domain.Ingredient,
	candidatesByProduct map[string][]domain.PriceCandidate,
	userCtx *domain.UserPricingContext,
	servings int,
) (*domain.RecipePricingResult, error) {
	if userCtx == nil {
		return nil, fmt.Errorf("%w: user context is required", domain.ErrInvalidInput)
	}
	if err := validatePricingInput(ingredients, servings); err != nil {
		return nil, err
	}

	acc := newPricingAccumulator()
	storeTotals := make(map[string]*domain.StoreTotal)

	for _, ingredient := range ingredients {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates := candidatesByProduct[ingredient.ProductID]
		scored := s.scorer.ScoreAndFilter(candidates, userCtx)
		if len(scored) == 0 {
			acc.addMissing(ingredient)
			continue
		}

		best := scored[0].Candidate
		best.Confidence = s.candidateConfidence(best)
		cost := CalculateCost(ingredient.Quantity, ingredient.Unit, best.Amount, best.Unit)

		acc.addPriced(ingredient, best, alternativesFrom(scored), cost)

		total, ok := storeTotals[best.StoreID]
		if !ok {
			total = &domain.StoreTotal{StoreID: best.StoreID, StoreName: best.StoreName}
			storeTotals[best.StoreID] = total
		}
		total.Total += cost
		total.ItemCount++
	}

	result := acc.result(domain.PricingModeUser, servings, s.now())
	result.Totals.PerStore = sortedStoreTotals(storeTotals)
	return result, nil
}

// ComputePublic prices a recipe for anonymous viewers using the plain
// arithmetic mean of all observed prices per ingredient. User preference
// weights, recency and confidence deliberately do not influence the mean;
// it is a market estimate, not a shopping plan. No per-store totals.
func (s *PricingService) ComputePublic(
	ctx context.Context,
	ingredients []domain.Ingredient,
	candidatesByProduct map[string][]domain.PriceCandidate,
	servings int,
) (*domain.RecipePricingResult, error) {
	if err := validatePricingInput(ingredients, servings); err != nil {
		return nil, err
	}

	acc := newPricingAccumulator()

	for _, ingredient := range ingredients {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		candidates := candidatesByProduct[ingredient.ProductID]
		if len(candidates) == 0 {
			acc.addMissing(ingredient)
			continue
		}

		average := s.averageCandidate(candidates)
		cost := CalculateCost(ingredient.Quantity, ingredient.Unit, average.Amount, average.Unit)

		acc.addPriced(ingredient, average, cheapestCandidates(candidates), cost)
	}

	return acc.result(domain.PricingModePublic, servings, s.now()), nil
}

// candidateConfidence scores a candidate's trustworthiness from its age and
// stock status. Nil InStock is treated as in stock.
func (s *PricingService) candidateConfidence(candidate domain.PriceCandidate) float64 {
	hasStock := candidate.InStock == nil || *candidate.InStock
	return s.confidence.Confidence(candidate.DateRecorded, hasStock)
}

// averageCandidate builds a synthetic candidate representing the market
// average: mean amount across all observations, the first candidate's unit
// as representative, the most recent observation date, and the mean of the
// per-observation confidences.
func (s *PricingService) averageCandidate(candidates []domain.PriceCandidate) domain.PriceCandidate {
	var amountSum, confidenceSum float64
	latest := candidates[0].DateRecorded
	for _, c := range candidates {
		amountSum += c.Amount
		confidenceSum += s.candidateConfidence(c)
		if c.DateRecorded.After(latest) {
			latest = c.DateRecorded
		}
	}

	n := float64(len(candidates))
	return domain.PriceCandidate{
		ProductID:    candidates[0].ProductID,
		StoreName:    "Average across stores",
		Amount:       amountSum / n,
		Currency:     candidates[0].Currency,
		Unit:         candidates[0].Unit,
		DateRecorded: latest,
		Confidence:   confidenceSum / n,
	}
}

// CalculateCost computes the cost of buying quantity (in quantityUnit) at
// amount per priceUnit. Conversion covers same-unit and same-family pairs
// (g/kg/mg/oz/lb, ml/l/cl/dl/...); any other pair falls back to a naive
// quantity × amount, assuming the units already agree. That fallback trades
// correctness for availability and is relied on for count units ("unit").
func CalculateCost(quantity float64, quantityUnit string, amount float64, priceUnit string) float64 {
	quantityInPriceUnits := ConvertUnit(quantity, quantityUnit, priceUnit)
	return quantityInPriceUnits * amount
}

func validatePricingInput(ingredients []domain.Ingredient, servings int) error {
	if servings <= 0 {
		return fmt.Errorf("%w: servings must be positive, got %d", domain.ErrInvalidInput, servings)
	}
	for _, ingredient := range ingredients {
		if ingredient.Quantity <= 0 {
			return fmt.Errorf("%w: ingredient %q has non-positive quantity %v",
				domain.ErrInvalidInput, ingredient.ID, ingredient.Quantity)
		}
	}
	return nil
}

func alternativesFrom(scored []ScoredCandidate) []domain.PriceCandidate {
	var alternatives []domain.PriceCandidate
	for i := 1; i < len(scored) && i <= maxAlternatives; i++ {
		alternatives = append(alternatives, scored[i].Candidate)
	}
	return alternatives
}

// cheapestCandidates returns up to three candidates sorted by ascending
// amount, without mutating the input slice.
func cheapestCandidates(candidates []domain.PriceCandidate) []domain.PriceCandidate {
	sorted := make([]domain.PriceCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount < sorted[j].Amount
	})
	if len(sorted) > maxAlternatives {
		sorted = sorted[:maxAlternatives]
	}
	return sorted
}

func sortedStoreTotals(storeTotals map[string]*domain.StoreTotal) []domain.StoreTotal {
	totals := make([]domain.StoreTotal, 0, len(storeTotals))
	for _, t := range storeTotals {
		totals = append(totals, *t)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total < totals[j].Total
	})
	return totals
}

// pricingAccumulator folds per-ingredient outcomes into the aggregate
// figures of a pricing run.
type pricingAccumulator struct {
	breakdown     []domain.IngredientPricingBreakdown
	totalCost     float64
	confidenceSum float64
	pricedCount   int
	missingCount  int
}

func newPricingAccumulator() *pricingAccumulator {
	return &pricingAccumulator{}
}

func (a *pricingAccumulator) addMissing(ingredient domain.Ingredient) {
	a.breakdown = append(a.breakdown, domain.IngredientPricingBreakdown{
		IngredientID: ingredient.ID,
		ProductID:    ingredient.ProductID,
		ProductName:  ingredient.ProductName,
		Missing:      true,
	})
	a.missingCount++
	log.Printf("[PRICE] no candidates for product %q (%s)", ingredient.ProductName, ingredient.ProductID)
}

func (a *pricingAccumulator) addPriced(
	ingredient domain.Ingredient,
	selected domain.PriceCandidate,
	alternatives []domain.PriceCandidate,
	cost float64,
) {
	a.breakdown = append(a.breakdown, domain.IngredientPricingBreakdown{
		IngredientID:  ingredient.ID,
		ProductID:     ingredient.ProductID,
		ProductName:   ingredient.ProductName,
		Selected:      &selected,
		Alternatives:  alternatives,
		EstimatedCost: cost,
	})
	a.totalCost += cost
	a.confidenceSum += selected.Confidence
	a.pricedCount++
}

func (a *pricingAccumulator) result(mode string, servings int, now time.Time) *domain.RecipePricingResult {
	confidence := 0.0
	if a.pricedCount > 0 {
		confidence = a.confidenceSum / float64(a.pricedCount)
	}

	return &domain.RecipePricingResult{
		Mode: mode,
		Totals: domain.PricingTotals{
			OptimizedMix: a.totalCost,
			PerServing:   a.totalCost / float64(servings),
		},
		Breakdown:     a.breakdown,
		MissingCount:  a.missingCount,
		DataTimestamp: now,
		Confidence:    confidence,
	}
}
