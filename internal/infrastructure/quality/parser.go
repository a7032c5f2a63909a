// Package quality parses the opaque JSON quality blobs attached to products
// into typed domain structures. The blobs come from a third-party food
// database and are inconsistent across products; the parser never fails,
// it degrades missing or malformed fields to their neutral absence.
package quality

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pantrywise/backend/internal/domain"
)

// ParseBlob converts a raw quality JSON blob into ProductQualityData.
// nil or malformed input yields an empty (all-neutral) structure.
func ParseBlob(blob []byte) *domain.ProductQualityData {
	data := &domain.ProductQualityData{}
	if len(blob) == 0 {
		return data
	}

	var raw map[string]any
	if err := json.Unmarshal(blob, &raw); err != nil {
		return data
	}

	data.NutriScore = parseGradedScore(raw, "nutriscore", "nutri_score", "nutriScore")
	data.EcoScore = parseEcoScore(raw)
	data.NovaGroup = parseNovaGroup(raw)
	data.OverallQualityScore = parseOverallScore(raw)
	data.Additives = parseAdditives(raw)
	data.Allergens = parseStringList(raw, "allergens", "allergens_tags")

	return data
}

// ParseProducts pairs product ids with their parsed blobs.
func ParseProducts(blobs map[string][]byte, names map[string]string) []domain.ProductWithQuality {
	products := make([]domain.ProductWithQuality, 0, len(blobs))
	for productID, blob := range blobs {
		products = append(products, domain.ProductWithQuality{
			ProductID:   productID,
			ProductName: names[productID],
			Quality:     ParseBlob(blob),
		})
	}
	return products
}

// parseGradedScore reads a {grade, score} object or a bare grade string
// under any of the given keys.
func parseGradedScore(raw map[string]any, keys ...string) *domain.NutriScore {
	value, ok := firstPresent(raw, keys...)
	if !ok {
		return nil
	}

	grade, score, ok := gradeAndScore(value)
	if !ok {
		return nil
	}
	return &domain.NutriScore{Grade: grade, Score: score}
}

func parseEcoScore(raw map[string]any) *domain.EcoScore {
	value, ok := firstPresent(raw, "ecoscore", "eco_score", "ecoScore", "environmental_score")
	if !ok {
		return nil
	}

	grade, score, ok := gradeAndScore(value)
	if !ok {
		return nil
	}
	return &domain.EcoScore{Grade: grade, Score: score}
}

// gradeAndScore accepts {"grade": "a", "score": 80}, a bare grade string,
// or a bare number treated as a score with no grade.
func gradeAndScore(value any) (string, *float64, bool) {
	switch v := value.(type) {
	case string:
		grade := normalizeGrade(v)
		if grade == "" {
			return "", nil, false
		}
		return grade, nil, true
	case float64:
		score := v
		return "", &score, true
	case map[string]any:
		grade := ""
		if g, ok := v["grade"].(string); ok {
			grade = normalizeGrade(g)
		}
		var score *float64
		if s, ok := coerceFloat(v["score"]); ok {
			score = &s
		}
		if grade == "" && score == nil {
			return "", nil, false
		}
		return grade, score, true
	default:
		return "", nil, false
	}
}

func parseNovaGroup(raw map[string]any) *domain.NovaGroup {
	value, ok := firstPresent(raw, "nova_group", "novaGroup", "nova")
	if !ok {
		return nil
	}

	switch v := value.(type) {
	case float64:
		return novaFromNumber(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return novaFromNumber(f)
		}
		return nil
	case map[string]any:
		group, ok := coerceFloat(v["group"])
		if !ok {
			return nil
		}
		ng := novaFromNumber(group)
		if ng == nil {
			return nil
		}
		if s, ok := coerceFloat(v["score"]); ok {
			ng.Score = &s
		}
		return ng
	default:
		return nil
	}
}

// novaFromNumber validates the 1-4 range; anything else is unknown.
func novaFromNumber(v float64) *domain.NovaGroup {
	group := int(v)
	if float64(group) != v || group < 1 || group > 4 {
		return nil
	}
	return &domain.NovaGroup{Group: group}
}

func parseOverallScore(raw map[string]any) *float64 {
	value, ok := firstPresent(raw, "quality_score", "overall_quality_score", "overallQualityScore")
	if !ok {
		return nil
	}
	score, ok := coerceFloat(value)
	if !ok || score < 0 || score > 100 {
		return nil
	}
	return &score
}

// parseAdditives accepts either a list of tag strings ("en:e330") or a list
// of {id, name} objects.
func parseAdditives(raw map[string]any) []domain.Additive {
	value, ok := firstPresent(raw, "additives", "additives_tags")
	if !ok {
		return nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil
	}

	var additives []domain.Additive
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if v != "" {
				additives = append(additives, domain.Additive{ID: v})
			}
		case map[string]any:
			additive := domain.Additive{}
			if id, ok := v["id"].(string); ok {
				additive.ID = id
			}
			if name, ok := v["name"].(string); ok {
				additive.Name = name
			}
			if additive.ID != "" || additive.Name != "" {
				additives = append(additives, additive)
			}
		}
	}
	return additives
}

func parseStringList(raw map[string]any, keys ...string) []string {
	value, ok := firstPresent(raw, keys...)
	if !ok {
		return nil
	}

	list, ok := value.([]any)
	if !ok {
		return nil
	}

	var result []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}

func firstPresent(raw map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if value, ok := raw[key]; ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

// normalizeGrade uppercases and validates a letter grade; non A-E grades
// (including OFF's "unknown" and "not-applicable") become empty.
func normalizeGrade(grade string) string {
	g := strings.ToUpper(strings.TrimSpace(grade))
	switch g {
	case "A", "B", "C", "D", "E":
		return g
	default:
		return ""
	}
}

// coerceFloat accepts numbers and numeric strings.
func coerceFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
