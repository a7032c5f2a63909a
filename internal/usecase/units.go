package usecase

import "strings"

// Weight units expressed in grams.
var weightUnits = map[string]float64{
	"g":  1,
	"kg": 1000,
	"mg": 0.001,
	"oz": 28.3495,
	"lb": 453.592,
}

// Volume units expressed in milliliters.
var volumeUnits = map[string]float64{
	"ml":    1,
	"l":     1000,
	"cl":    10,
	"dl":    100,
	"cup":   240,
	"tbsp":  15,
	"tsp":   5,
	"fl oz": 29.5735,
}

// unitAliases maps the unit spellings found in recipe and price data to the
// canonical names used in the conversion tables. French spellings appear
// because the original price feeds are French retailers.
var unitAliases = map[string]string{
	"gram":        "g",
	"grams":       "g",
	"gramme":      "g",
	"grammes":     "g",
	"gr":          "g",
	"kilo":        "kg",
	"kilos":       "kg",
	"kilogram":    "kg",
	"kilograms":   "kg",
	"kilogramme":  "kg",
	"kilogrammes": "kg",
	"milligram":   "mg",
	"milligrams":  "mg",
	"liter":       "l",
	"liters":      "l",
	"litre":       "l",
	"litres":      "l",
	"milliliter":  "ml",
	"milliliters": "ml",
	"millilitre":  "ml",
	"millilitres": "ml",
	"centilitre":  "cl",
	"centilitres": "cl",
	"cups":        "cup",
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"floz":        "fl oz",
	"ounce":       "oz",
	"ounces":      "oz",
	"pound":       "lb",
	"pounds":      "lb",
	"lbs":         "lb",
	"piece":       "unit",
	"pieces":      "unit",
	"pièce":       "unit",
	"pièces":      "unit",
	"piece(s)":    "unit",
	"pcs":         "unit",
	"unité":       "unit",
	"unités":      "unit",
	"units":       "unit",
}

// NormalizeUnit resolves a unit-name synonym to its canonical form.
// Unknown names pass through unchanged (lowercased, trimmed).
func NormalizeUnit(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := unitAliases[u]; ok {
		return canonical
	}
	return u
}

// ConvertUnit converts value from one unit to another within the same family
// (weight or volume). When either unit is unrecognized, or the units belong
// to different families, the value is returned unchanged. Failing open keeps
// a bad unit string in the data from breaking a whole recipe estimate at the
// cost of a possibly wrong per-ingredient figure.
func ConvertUnit(value float64, fromUnit, toUnit string) float64 {
	from := NormalizeUnit(fromUnit)
	to := NormalizeUnit(toUnit)

	if from == to {
		return value
	}

	if fromFactor, ok := weightUnits[from]; ok {
		if toFactor, ok := weightUnits[to]; ok {
			return value * fromFactor / toFactor
		}
		return value
	}

	if fromFactor, ok := volumeUnits[from]; ok {
		if toFactor, ok := volumeUnits[to]; ok {
			return value * fromFactor / toFactor
		}
		return value
	}

	return value
}

// IsWeightUnit reports whether the (normalized) unit is a known weight unit.
func IsWeightUnit(unit string) bool {
	_, ok := weightUnits[NormalizeUnit(unit)]
	return ok
}

// IsVolumeUnit reports whether the (normalized) unit is a known volume unit.
func IsVolumeUnit(unit string) bool {
	_, ok := volumeUnits[NormalizeUnit(unit)]
	return ok
}
