package usecase

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvertUnit(t *testing.T) {
	t.Run("identity for same unit", func(t *testing.T) {
		for _, unit := range []string{"g", "kg", "mg", "oz", "lb", "ml", "l", "cl", "dl", "cup", "tbsp", "tsp", "fl oz"} {
			if got := ConvertUnit(42.5, unit, unit); got != 42.5 {
				t.Errorf("ConvertUnit(42.5, %q, %q) = %v, want 42.5", unit, unit, got)
			}
		}
	})

	t.Run("weight conversions", func(t *testing.T) {
		if got := ConvertUnit(2, "kg", "g"); got != 2000 {
			t.Errorf("ConvertUnit(2, kg, g) = %v, want 2000", got)
		}
		if got := ConvertUnit(500, "g", "kg"); got != 0.5 {
			t.Errorf("ConvertUnit(500, g, kg) = %v, want 0.5", got)
		}
		if got := ConvertUnit(1, "lb", "g"); !almostEqual(got, 453.592) {
			t.Errorf("ConvertUnit(1, lb, g) = %v, want 453.592", got)
		}
	})

	t.Run("volume conversions", func(t *testing.T) {
		if got := ConvertUnit(1.5, "l", "ml"); got != 1500 {
			t.Errorf("ConvertUnit(1.5, l, ml) = %v, want 1500", got)
		}
		if got := ConvertUnit(25, "cl", "l"); !almostEqual(got, 0.25) {
			t.Errorf("ConvertUnit(25, cl, l) = %v, want 0.25", got)
		}
		if got := ConvertUnit(2, "cup", "ml"); got != 480 {
			t.Errorf("ConvertUnit(2, cup, ml) = %v, want 480", got)
		}
	})

	t.Run("round trip preserves value", func(t *testing.T) {
		v := 3.7
		if got := ConvertUnit(ConvertUnit(v, "kg", "g"), "g", "kg"); !almostEqual(got, v) {
			t.Errorf("kg->g->kg round trip = %v, want %v", got, v)
		}
		if got := ConvertUnit(ConvertUnit(v, "l", "ml"), "ml", "l"); !almostEqual(got, v) {
			t.Errorf("l->ml->l round trip = %v, want %v", got, v)
		}
	})

	t.Run("case insensitive lookup", func(t *testing.T) {
		if got := ConvertUnit(2, "KG", "G"); got != 2000 {
			t.Errorf("ConvertUnit(2, KG, G) = %v, want 2000", got)
		}
	})

	t.Run("unknown unit fails open", func(t *testing.T) {
		if got := ConvertUnit(7, "bunch", "g"); got != 7 {
			t.Errorf("ConvertUnit(7, bunch, g) = %v, want 7 (unchanged)", got)
		}
		if got := ConvertUnit(7, "g", "bunch"); got != 7 {
			t.Errorf("ConvertUnit(7, g, bunch) = %v, want 7 (unchanged)", got)
		}
	})

	t.Run("cross family fails open", func(t *testing.T) {
		if got := ConvertUnit(100, "g", "ml"); got != 100 {
			t.Errorf("ConvertUnit(100, g, ml) = %v, want 100 (unchanged)", got)
		}
		if got := ConvertUnit(100, "ml", "kg"); got != 100 {
			t.Errorf("ConvertUnit(100, ml, kg) = %v, want 100 (unchanged)", got)
		}
	})
}

func TestNormalizeUnit(t *testing.T) {
	cases := map[string]string{
		"gramme":   "g",
		"Grammes":  "g",
		"grams":    "g",
		"litre":    "l",
		"litres":   "l",
		"pièce":    "unit",
		"pièces":   "unit",
		"pcs":      "unit",
		"LBS":      "lb",
		"tbsp":     "tbsp",
		"  kg  ":   "kg",
		"smidgen":  "smidgen", // unknown passes through
		"Teaspoon": "tsp",
	}

	for input, want := range cases {
		if got := NormalizeUnit(input); got != want {
			t.Errorf("NormalizeUnit(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUnitFamilies(t *testing.T) {
	if !IsWeightUnit("kilogramme") {
		t.Error("IsWeightUnit(kilogramme) = false, want true")
	}
	if !IsVolumeUnit("centilitres") {
		t.Error("IsVolumeUnit(centilitres) = false, want true")
	}
	if IsWeightUnit("ml") {
		t.Error("IsWeightUnit(ml) = true, want false")
	}
	if IsVolumeUnit("unit") {
		t.Error("IsVolumeUnit(unit) = true, want false")
	}
}
