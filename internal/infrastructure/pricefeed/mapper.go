package pricefeed

import (
	"time"

	"github.com/pantrywise/backend/internal/domain"
)

// feedResponse is the wire shape of the price feed API.
type feedResponse struct {
	Prices []PriceRecord `json:"prices"`
}

// PriceRecord is one observation as the feed serves it.
type PriceRecord struct {
	ID            string   `json:"id"`
	ProductID     string   `json:"productId"`
	StoreID       string   `json:"storeId"`
	StoreName     string   `json:"storeName"`
	StoreLocation string   `json:"storeLocation,omitempty"`
	Amount        float64  `json:"amount"`
	Currency      string   `json:"currency"`
	Unit          string   `json:"unit"`
	RecordedAt    string   `json:"recordedAt"` // RFC 3339
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
	QualityScore  *float64 `json:"qualityScore,omitempty"`
	InStock       *bool    `json:"inStock,omitempty"`
}

// MapToCandidates converts feed records to domain candidates keyed by
// product id. Records with an unparsable date or a negative amount are
// dropped rather than poisoning downstream math.
func MapToCandidates(records []PriceRecord) map[string][]domain.PriceCandidate {
	byProduct := make(map[string][]domain.PriceCandidate)
	for _, record := range records {
		candidate, ok := mapRecord(record)
		if !ok {
			continue
		}
		byProduct[record.ProductID] = append(byProduct[record.ProductID], candidate)
	}
	return byProduct
}

func mapRecord(record PriceRecord) (domain.PriceCandidate, bool) {
	if record.ProductID == "" || record.Amount < 0 {
		return domain.PriceCandidate{}, false
	}

	recordedAt, err := time.Parse(time.RFC3339, record.RecordedAt)
	if err != nil {
		return domain.PriceCandidate{}, false
	}

	return domain.PriceCandidate{
		ID:            record.ID,
		ProductID:     record.ProductID,
		StoreID:       record.StoreID,
		StoreName:     record.StoreName,
		StoreLocation: record.StoreLocation,
		Amount:        record.Amount,
		Currency:      record.Currency,
		Unit:          record.Unit,
		DateRecorded:  recordedAt,
		DistanceKm:    record.DistanceKm,
		QualityScore:  record.QualityScore,
		InStock:       record.InStock,
	}, true
}
