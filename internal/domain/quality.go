package domain

// NutriScore is the letter-graded nutritional quality indicator of a product.
// Score, when present, takes precedence over the grade letter.
type NutriScore struct {
	Grade string   `json:"grade"` // "A".."E", or "" when unknown
	Score *float64 `json:"score,omitempty"`
}

// NovaGroup classifies the processing level of a food, 1 (unprocessed) to
// 4 (ultra-processed). Group 0 means unknown.
type NovaGroup struct {
	Group int      `json:"group"`
	Score *float64 `json:"score,omitempty"`
}

// EcoScore is the letter-graded environmental impact indicator of a product.
type EcoScore struct {
	Grade string   `json:"grade"`
	Score *float64 `json:"score,omitempty"`
}

// Additive is one food additive found in a product.
type Additive struct {
	ID   string `json:"id"` // e.g. "en:e330"
	Name string `json:"name"`
}

// ProductQualityData is the parsed form of a product's quality blob.
// Every field is optional; absent fields are treated neutrally downstream.
type ProductQualityData struct {
	NutriScore          *NutriScore `json:"nutriScore,omitempty"`
	NovaGroup           *NovaGroup  `json:"novaGroup,omitempty"`
	EcoScore            *EcoScore   `json:"ecoScore,omitempty"`
	OverallQualityScore *float64    `json:"overallQualityScore,omitempty"` // 0-100
	Additives           []Additive  `json:"additives,omitempty"`
	Allergens           []string    `json:"allergens,omitempty"`
}

// ProductWithQuality pairs a product id with its parsed quality data.
type ProductWithQuality struct {
	ProductID   string              `json:"productId"`
	ProductName string              `json:"productName"`
	Quality     *ProductQualityData `json:"quality,omitempty"`
}

// QualityBreakdownItem is the per-ingredient slice of a quality result.
// Missing is true when no quality data was found for the ingredient's
// product; such rows are excluded from the recipe averages.
type QualityBreakdownItem struct {
	IngredientID  string  `json:"ingredientId"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	Missing       bool    `json:"missing"`
	NutriGrade    string  `json:"nutriGrade,omitempty"`
	EcoGrade      string  `json:"ecoGrade,omitempty"`
	NovaGroup     int     `json:"novaGroup,omitempty"`
	QualityScore  float64 `json:"qualityScore"`
	AdditiveCount int     `json:"additiveCount"`
	Weight        float64 `json:"weight"`
}

// Recommendation priorities, ordered low to high.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// QualityRecommendation suggests an improvement for one ingredient.
type QualityRecommendation struct {
	IngredientID        string  `json:"ingredientId"`
	ProductName         string  `json:"productName"`
	Type                string  `json:"type"` // currently always "substitute"
	Priority            string  `json:"priority"`
	Reason              string  `json:"reason"`
	ExpectedQualityGain float64 `json:"expectedQualityGain"`
}

// RecipeQualityResult aggregates product quality across a whole recipe.
type RecipeQualityResult struct {
	NutriScoreAvg   float64                 `json:"nutriScoreAvg"`
	NutriGrade      string                  `json:"nutriGrade"`
	EcoScoreAvg     float64                 `json:"ecoScoreAvg"`
	EcoGrade        string                  `json:"ecoGrade"`
	NovaGroupAvg    float64                 `json:"novaGroupAvg"`
	OverallScore    float64                 `json:"overallScore"`
	OverallGrade    string                  `json:"overallGrade"`
	AdditiveCount   int                     `json:"additiveCount"`
	AllergenCount   int                     `json:"allergenCount"`
	Allergens       []string                `json:"allergens,omitempty"`
	Breakdown       []QualityBreakdownItem  `json:"breakdown"`
	MissingCount    int                     `json:"missingCount"`
	Recommendations []QualityRecommendation `json:"recommendations"`
}
