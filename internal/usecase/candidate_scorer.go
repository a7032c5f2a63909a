package usecase

import (
	"log"
	"sort"

	"github.com/pantrywise/backend/internal/domain"
)

// Scoring constants
const (
	favoriteStoreBonus  = 1.1 // Multiplier for candidates at a favorite store
	neutralSignalScore  = 0.5 // Used when a signal has no spread or is absent
	defaultQualityScore = 50.0
)

// ScoredCandidate pairs a price candidate with its computed preference score.
type ScoredCandidate struct {
	Candidate domain.PriceCandidate
	Score     float64
}

// ScorerConfig holds configuration for the candidate scorer
type ScorerConfig struct {
	Weights            domain.ScoringWeights
	EnableDebugLogging bool
}

// CandidateScorer ranks the price candidates of one ingredient against a
// user's constraints and preference weights.
type CandidateScorer struct {
	defaultWeights     domain.ScoringWeights
	enableDebugLogging bool
}

// NewCandidateScorer creates a scorer with the given configuration.
// Zero weights fall back to the documented defaults (0.6/0.25/0.15).
func NewCandidateScorer(config ScorerConfig) *CandidateScorer {
	weights := config.Weights
	if weights == (domain.ScoringWeights{}) {
		weights = domain.DefaultScoringWeights()
	}

	return &CandidateScorer{
		defaultWeights:     weights,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// ScoreAndFilter filters candidates against the user's constraints and
// returns the survivors sorted by descending score. An empty result means
// the ingredient has no acceptable price and should be reported missing.
//
// Score = priceWeight·priceScore + distanceWeight·distanceScore +
// qualityWeight·qualityScore, each signal min/max-normalized across the
// filtered set. Candidates at a favorite store get a 1.1 multiplier on top
// of the weighted sum, which can push the score past the weighted maximum;
// scores are only compared within one ingredient, so that headroom is fine.
func (s *CandidateScorer) ScoreAndFilter(
	candidates []domain.PriceCandidate,
	userCtx *domain.UserPricingContext,
) []ScoredCandidate {
	filtered := s.applyFilters(candidates, userCtx)
	if len(filtered) == 0 {
		return nil
	}

	weights := s.weightsFor(userCtx)
	stats := collectSignalStats(filtered)

	scored := make([]ScoredCandidate, 0, len(filtered))
	for _, candidate := range filtered {
		priceScore := stats.priceScore(candidate.Amount)
		distanceScore := stats.distanceScore(candidate.DistanceKm)
		qualityScore := stats.qualityScore(candidate.QualityScore)

		score := weights.Price*priceScore +
			weights.Distance*distanceScore +
			weights.Quality*qualityScore

		if userCtx != nil && contains(userCtx.FavoriteStoreIDs, candidate.StoreID) {
			score *= favoriteStoreBonus
		}

		if s.enableDebugLogging {
			log.Printf("[SCORE] store=%s amount=%.2f price=%.3f dist=%.3f quality=%.3f total=%.3f",
				candidate.StoreID, candidate.Amount, priceScore, distanceScore, qualityScore, score)
		}

		scored = append(scored, ScoredCandidate{Candidate: candidate, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// applyFilters drops candidates at excluded stores and, when both the budget
// and the candidate distance are known, candidates beyond MaxDistanceKm.
func (s *CandidateScorer) applyFilters(
	candidates []domain.PriceCandidate,
	userCtx *domain.UserPricingContext,
) []domain.PriceCandidate {
	if userCtx == nil {
		return candidates
	}

	var filtered []domain.PriceCandidate
	for _, candidate := range candidates {
		if contains(userCtx.ExcludedStoreIDs, candidate.StoreID) {
			continue
		}
		if userCtx.MaxDistanceKm != nil && candidate.DistanceKm != nil &&
			*candidate.DistanceKm > *userCtx.MaxDistanceKm {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

func (s *CandidateScorer) weightsFor(userCtx *domain.UserPricingContext) domain.ScoringWeights {
	if userCtx != nil && userCtx.Weights != (domain.ScoringWeights{}) {
		return userCtx.Weights
	}
	return s.defaultWeights
}

// signalStats holds the min/max of each scoring signal across one filtered
// candidate set. Distance stats only consider candidates with distance > 0.
type signalStats struct {
	minAmount, maxAmount     float64
	minDistance, maxDistance float64
	hasDistance              bool
	minQuality, maxQuality   float64
}

func collectSignalStats(candidates []domain.PriceCandidate) signalStats {
	stats := signalStats{
		minAmount:  candidates[0].Amount,
		maxAmount:  candidates[0].Amount,
		minQuality: qualityOrDefault(candidates[0].QualityScore),
		maxQuality: qualityOrDefault(candidates[0].QualityScore),
	}

	for _, c := range candidates {
		if c.Amount < stats.minAmount {
			stats.minAmount = c.Amount
		}
		if c.Amount > stats.maxAmount {
			stats.maxAmount = c.Amount
		}

		q := qualityOrDefault(c.QualityScore)
		if q < stats.minQuality {
			stats.minQuality = q
		}
		if q > stats.maxQuality {
			stats.maxQuality = q
		}

		if c.DistanceKm != nil && *c.DistanceKm > 0 {
			if !stats.hasDistance {
				stats.minDistance = *c.DistanceKm
				stats.maxDistance = *c.DistanceKm
				stats.hasDistance = true
				continue
			}
			if *c.DistanceKm < stats.minDistance {
				stats.minDistance = *c.DistanceKm
			}
			if *c.DistanceKm > stats.maxDistance {
				stats.maxDistance = *c.DistanceKm
			}
		}
	}

	return stats
}

// priceScore maps the cheapest candidate to 1 and the dearest to 0.
// With no spread every candidate scores 1: an all-equal price field should
// not penalize anyone.
func (st signalStats) priceScore(amount float64) float64 {
	if st.maxAmount <= st.minAmount {
		return 1
	}
	return 1 - (amount-st.minAmount)/(st.maxAmount-st.minAmount)
}

// distanceScore maps the closest candidate to 1 and the farthest to 0, or a
// neutral 0.5 when the candidate has no distance or there is no spread.
func (st signalStats) distanceScore(distanceKm *float64) float64 {
	if distanceKm == nil || !st.hasDistance || st.maxDistance <= st.minDistance {
		return neutralSignalScore
	}
	return 1 - (*distanceKm-st.minDistance)/(st.maxDistance-st.minDistance)
}

// qualityScore maps the best-rated candidate to 1 and the worst to 0, or a
// neutral 0.5 when the candidate has no rating or there is no spread.
func (st signalStats) qualityScore(qualityScore *float64) float64 {
	if qualityScore == nil || st.maxQuality <= st.minQuality {
		return neutralSignalScore
	}
	return (*qualityScore - st.minQuality) / (st.maxQuality - st.minQuality)
}

func qualityOrDefault(score *float64) float64 {
	if score == nil {
		return defaultQualityScore
	}
	return *score
}

func contains(set map[string]struct{}, key string) bool {
	if set == nil {
		return false
	}
	_, ok := set[key]
	return ok
}
