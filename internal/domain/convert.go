package domain

import "fmt"

const (
	lbToKg = 0.453592
	kgToLb = 2.20462
)

// ToKg converts v expressed in from into kilograms.
func ToKg(v float64, from WeightUnit) float64 {
	if from == UnitLB {
		return v * lbToKg
	}
	return v
}

// FromKg converts a kilogram value into the to unit.
func FromKg(kg float64, to WeightUnit) float64 {
	if to == UnitLB {
		return kg * kgToLb
	}
	return kg
}

// ConvertWeight converts a weight value between units by way of kilograms.
// Returns v unchanged if from == to.
func ConvertWeight(v float64, from, to WeightUnit) float64 {
	if from == to {
		return v
	}
	return FromKg(ToKg(v, from), to)
}

// FormatWeight renders v with one decimal place and the unit label,
// e.g. "70.0 kg" or "154.3 lbs".
func FormatWeight(v float64, unit WeightUnit) string {
	return fmt.Sprintf("%.1f %s", v, unit.Label())
}
