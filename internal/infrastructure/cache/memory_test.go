package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pantrywise/backend/internal/domain"
)

func testResult(total float64) *domain.RecipePricingResult {
	return &domain.RecipePricingResult{
		Mode:          domain.PricingModePublic,
		Totals:        domain.PricingTotals{OptimizedMix: total},
		DataTimestamp: time.Now(),
	}
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "recipe:1", testResult(12.5), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "recipe:1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Totals.OptimizedMix != 12.5 {
		t.Errorf("OptimizedMix = %v, want 12.5", got.Totals.OptimizedMix)
	}
}

func TestMemoryCache_GetReturnsCopy(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recipe:1", testResult(10), time.Minute)

	first, _ := c.Get(ctx, "recipe:1")
	first.Totals.OptimizedMix = 999

	second, _ := c.Get(ctx, "recipe:1")
	if second.Totals.OptimizedMix != 10 {
		t.Errorf("cached value mutated through returned copy: %v", second.Totals.OptimizedMix)
	}
}

func TestMemoryCache_CopyIsDeep(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	distance := 2.5
	result := testResult(10)
	result.Totals.PerStore = []domain.StoreTotal{{StoreID: "s1", StoreName: "Store 1", Total: 10}}
	result.Breakdown = []domain.IngredientPricingBreakdown{{
		IngredientID: "i1",
		Selected:     &domain.PriceCandidate{ID: "c1", Amount: 10, DistanceKm: &distance},
		Alternatives: []domain.PriceCandidate{{ID: "c2", Amount: 11}},
	}}

	c.Set(ctx, "recipe:1", result, time.Minute)

	// Mutating the original after Set must not reach the cache.
	result.Breakdown[0].Selected.Amount = 999
	result.Totals.PerStore[0].Total = 999

	first, _ := c.Get(ctx, "recipe:1")
	if first.Breakdown[0].Selected.Amount != 10 {
		t.Errorf("Selected.Amount = %v, want 10 (caller mutation leaked in)", first.Breakdown[0].Selected.Amount)
	}
	if first.Totals.PerStore[0].Total != 10 {
		t.Errorf("PerStore.Total = %v, want 10 (caller mutation leaked in)", first.Totals.PerStore[0].Total)
	}

	// Mutating a returned copy must not reach later readers.
	first.Breakdown[0].Alternatives[0].Amount = 999
	*first.Breakdown[0].Selected.DistanceKm = 999

	second, _ := c.Get(ctx, "recipe:1")
	if second.Breakdown[0].Alternatives[0].Amount != 11 {
		t.Errorf("Alternatives.Amount = %v, want 11 (copy mutation leaked back)", second.Breakdown[0].Alternatives[0].Amount)
	}
	if *second.Breakdown[0].Selected.DistanceKm != 2.5 {
		t.Errorf("DistanceKm = %v, want 2.5 (copy mutation leaked back)", *second.Breakdown[0].Selected.DistanceKm)
	}
}

func TestMemoryCache_Miss(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_Expiration(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recipe:1", testResult(5), 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "recipe:1"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after expiry", err)
	}

	exists, err := c.Exists(ctx, "recipe:1")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true, want false after expiry")
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "recipe:1", testResult(5), time.Minute)
	if err := c.Delete(ctx, "recipe:1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := c.Get(ctx, "recipe:1"); !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after delete", err)
	}
}

func TestMemoryCache_NilResult(t *testing.T) {
	c := NewMemoryCache()

	if err := c.Set(context.Background(), "recipe:1", nil, time.Minute); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Set(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryCache_SizeAndClear(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "a", testResult(1), time.Minute)
	c.Set(ctx, "b", testResult(2), time.Minute)

	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2", c.Size())
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
}
