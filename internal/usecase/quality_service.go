package usecase

import (
	"fmt"
	"sort"

	"github.com/pantrywise/backend/internal/domain"
)

// Recommendation rules: each matched ingredient is checked against these in
// order; only the highest-priority hit per ingredient survives deduplication.
const (
	gainUltraProcessed = 25.0 // Nova group 4
	gainPoorNutrition  = 20.0 // NutriScore D/E
	gainManyAdditives  = 15.0 // 5 or more additives
	gainPoorEcoScore   = 10.0 // EcoScore D/E

	additiveCountThreshold = 5
	maxRecommendations     = 5
)

// Letter grades map to the midpoints of their score bands.
var gradeScores = map[string]float64{
	"A": 100, "B": 75, "C": 50, "D": 25, "E": 0,
}

var priorityRank = map[string]int{
	domain.PriorityLow:    1,
	domain.PriorityMedium: 2,
	domain.PriorityHigh:   3,
}

// QualityService aggregates per-product quality data into recipe-level
// scores, grades and improvement recommendations.
type QualityService struct{}

// NewQualityService creates a quality aggregation service.
func NewQualityService() *QualityService {
	return &QualityService{}
}

// ComputeRecipeQuality computes quantity-weighted average quality scores for
// a recipe. Ingredients without quality data are reported in the breakdown
// with Missing=true and excluded from every average.
//
// The weight of an ingredient is its raw Quantity, with no unit
// normalization: 1 kg of flour weighs the same in the average as 1 g of
// salt. Changing that would shift user-visible grades, so it stays until
// there is a product decision. The same totalWeight denominator is shared
// by all score types even when their per-item availability differs.
func (s *QualityService) ComputeRecipeQuality(
	ingredients []domain.Ingredient,
	products []domain.ProductWithQuality,
) (*domain.RecipeQualityResult, error) {
	for _, ingredient := range ingredients {
		if ingredient.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ingredient %q has non-positive quantity %v",
				domain.ErrInvalidInput, ingredient.ID, ingredient.Quantity)
		}
	}

	byProduct := make(map[string]domain.ProductWithQuality, len(products))
	for _, p := range products {
		byProduct[p.ProductID] = p
	}

	var (
		totalWeight     float64
		nutriSum        float64
		ecoSum          float64
		novaSum         float64
		overallSum      float64
		breakdown       []domain.QualityBreakdownItem
		missingCount    int
		recommendations []domain.QualityRecommendation
	)

	additives := make(map[string]struct{})
	allergens := make(map[string]struct{})
	var allergenList []string

	for _, ingredient := range ingredients {
		product, ok := byProduct[ingredient.ProductID]
		if !ok || product.Quality == nil {
			breakdown = append(breakdown, domain.QualityBreakdownItem{
				IngredientID: ingredient.ID,
				ProductID:    ingredient.ProductID,
				ProductName:  ingredient.ProductName,
				Missing:      true,
			})
			missingCount++
			continue
		}

		quality := product.Quality
		weight := ingredient.Quantity
		totalWeight += weight

		nutriSum += weight * nutriScoreValue(quality.NutriScore)
		ecoSum += weight * ecoScoreValue(quality.EcoScore)
		novaSum += weight * novaGroupValue(quality.NovaGroup)
		overallSum += weight * overallScoreValue(quality.OverallQualityScore)

		for _, additive := range quality.Additives {
			key := additive.ID
			if key == "" {
				key = additive.Name
			}
			additives[key] = struct{}{}
		}
		for _, allergen := range quality.Allergens {
			if _, seen := allergens[allergen]; !seen {
				allergens[allergen] = struct{}{}
				allergenList = append(allergenList, allergen)
			}
		}

		breakdown = append(breakdown, domain.QualityBreakdownItem{
			IngredientID:  ingredient.ID,
			ProductID:     ingredient.ProductID,
			ProductName:   ingredient.ProductName,
			NutriGrade:    gradeOf(quality.NutriScore),
			EcoGrade:      ecoGradeOf(quality.EcoScore),
			NovaGroup:     novaGroupOf(quality.NovaGroup),
			QualityScore:  overallScoreValue(quality.OverallQualityScore),
			AdditiveCount: len(quality.Additives),
			Weight:        weight,
		})

		recommendations = appendRecommendations(recommendations, ingredient, quality)
	}

	result := &domain.RecipeQualityResult{
		Breakdown:       breakdown,
		MissingCount:    missingCount,
		AdditiveCount:   len(additives),
		AllergenCount:   len(allergens),
		Allergens:       allergenList,
		Recommendations: finalizeRecommendations(recommendations),
	}

	if totalWeight > 0 {
		result.NutriScoreAvg = nutriSum / totalWeight
		result.EcoScoreAvg = ecoSum / totalWeight
		result.NovaGroupAvg = novaSum / totalWeight
		result.OverallScore = overallSum / totalWeight
	}

	result.NutriGrade = scoreToGrade(result.NutriScoreAvg)
	result.EcoGrade = scoreToGrade(result.EcoScoreAvg)
	result.OverallGrade = scoreToGrade(result.OverallScore)

	return result, nil
}

// nutriScoreValue resolves a NutriScore to a 0-100 value: explicit score if
// present, else the letter grade, else 0.
func nutriScoreValue(ns *domain.NutriScore) float64 {
	if ns == nil {
		return 0
	}
	if ns.Score != nil {
		return *ns.Score
	}
	return gradeScores[ns.Grade]
}

func ecoScoreValue(es *domain.EcoScore) float64 {
	if es == nil {
		return 0
	}
	if es.Score != nil {
		return *es.Score
	}
	return gradeScores[es.Grade]
}

func novaGroupValue(ng *domain.NovaGroup) float64 {
	if ng == nil {
		return 0
	}
	return float64(ng.Group)
}

// overallScoreValue defaults to a neutral 50 when the product has no
// overall quality score.
func overallScoreValue(score *float64) float64 {
	if score == nil {
		return defaultQualityScore
	}
	return *score
}

func gradeOf(ns *domain.NutriScore) string {
	if ns == nil {
		return ""
	}
	return ns.Grade
}

func ecoGradeOf(es *domain.EcoScore) string {
	if es == nil {
		return ""
	}
	return es.Grade
}

func novaGroupOf(ng *domain.NovaGroup) int {
	if ng == nil {
		return 0
	}
	return ng.Group
}

// scoreToGrade converts an averaged 0-100 score back to a letter grade.
// The D cutoff sits at 25 so a recipe of all grade-D products (score 25)
// grades D rather than E.
func scoreToGrade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	case score >= 25:
		return "D"
	case score > 0:
		return "E"
	default:
		return "unknown"
	}
}

// appendRecommendations emits the rule hits for one ingredient. All rules
// are evaluated; deduplication happens in finalizeRecommendations.
func appendRecommendations(
	recs []domain.QualityRecommendation,
	ingredient domain.Ingredient,
	quality *domain.ProductQualityData,
) []domain.QualityRecommendation {
	if quality.NovaGroup != nil && quality.NovaGroup.Group == 4 {
		recs = append(recs, domain.QualityRecommendation{
			IngredientID:        ingredient.ID,
			ProductName:         ingredient.ProductName,
			Type:                "substitute",
			Priority:            domain.PriorityHigh,
			Reason:              "ultra-processed product (Nova group 4)",
			ExpectedQualityGain: gainUltraProcessed,
		})
	}
	if grade := gradeOf(quality.NutriScore); grade == "D" || grade == "E" {
		recs = append(recs, domain.QualityRecommendation{
			IngredientID:        ingredient.ID,
			ProductName:         ingredient.ProductName,
			Type:                "substitute",
			Priority:            domain.PriorityHigh,
			Reason:              fmt.Sprintf("poor nutritional quality (NutriScore %s)", grade),
			ExpectedQualityGain: gainPoorNutrition,
		})
	}
	if len(quality.Additives) >= additiveCountThreshold {
		recs = append(recs, domain.QualityRecommendation{
			IngredientID:        ingredient.ID,
			ProductName:         ingredient.ProductName,
			Type:                "substitute",
			Priority:            domain.PriorityMedium,
			Reason:              fmt.Sprintf("contains %d additives", len(quality.Additives)),
			ExpectedQualityGain: gainManyAdditives,
		})
	}
	if grade := ecoGradeOf(quality.EcoScore); grade == "D" || grade == "E" {
		recs = append(recs, domain.QualityRecommendation{
			IngredientID:        ingredient.ID,
			ProductName:         ingredient.ProductName,
			Type:                "substitute",
			Priority:            domain.PriorityLow,
			Reason:              fmt.Sprintf("high environmental impact (EcoScore %s)", grade),
			ExpectedQualityGain: gainPoorEcoScore,
		})
	}
	return recs
}

// finalizeRecommendations keeps one recommendation per ingredient (a later
// hit replaces an earlier one only at strictly higher priority, so the first
// wins on ties), sorts by priority then expected gain, and caps the list.
func finalizeRecommendations(recs []domain.QualityRecommendation) []domain.QualityRecommendation {
	byIngredient := make(map[string]domain.QualityRecommendation)
	var order []string
	for _, rec := range recs {
		existing, ok := byIngredient[rec.IngredientID]
		if !ok {
			byIngredient[rec.IngredientID] = rec
			order = append(order, rec.IngredientID)
			continue
		}
		if priorityRank[rec.Priority] > priorityRank[existing.Priority] {
			byIngredient[rec.IngredientID] = rec
		}
	}

	deduped := make([]domain.QualityRecommendation, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, byIngredient[id])
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		if priorityRank[deduped[i].Priority] != priorityRank[deduped[j].Priority] {
			return priorityRank[deduped[i].Priority] > priorityRank[deduped[j].Priority]
		}
		return deduped[i].ExpectedQualityGain > deduped[j].ExpectedQualityGain
	})

	if len(deduped) > maxRecommendations {
		deduped = deduped[:maxRecommendations]
	}
	return deduped
}
