package usecase

import "time"

// Age thresholds and penalties for price observations. Penalties multiply;
// an out-of-stock observation older than 30 days bottoms out at 0.15.
const (
	ageFresh  = 7 * 24 * time.Hour
	ageRecent = 14 * 24 * time.Hour
	ageStale  = 30 * 24 * time.Hour

	penaltyRecent     = 0.9
	penaltyStale      = 0.7
	penaltyExpired    = 0.5
	penaltyOutOfStock = 0.3
)

// ConfidenceModel scores how much a price observation can be trusted given
// its age and stock status. The clock is injectable so tests can pin "now".
type ConfidenceModel struct {
	now func() time.Time
}

// NewConfidenceModel creates a confidence model using the wall clock.
func NewConfidenceModel() *ConfidenceModel {
	return &ConfidenceModel{now: time.Now}
}

// NewConfidenceModelAt creates a confidence model with a fixed clock.
func NewConfidenceModelAt(now func() time.Time) *ConfidenceModel {
	if now == nil {
		now = time.Now
	}
	return &ConfidenceModel{now: now}
}

// Confidence returns a score in [0,1] for a price recorded at dateRecorded.
// Base confidence is 1.0; age and stock penalties are multiplicative.
func (m *ConfidenceModel) Confidence(dateRecorded time.Time, hasStock bool) float64 {
	confidence := 1.0

	age := m.now().Sub(dateRecorded)
	switch {
	case age > ageStale:
		confidence *= penaltyExpired
	case age > ageRecent:
		confidence *= penaltyStale
	case age > ageFresh:
		confidence *= penaltyRecent
	}

	if !hasStock {
		confidence *= penaltyOutOfStock
	}

	if confidence < 0 {
		return 0
	}
	if confidence > 1 {
		return 1
	}
	return confidence
}
