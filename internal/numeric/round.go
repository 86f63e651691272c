// Package numeric holds the rounding rules spec.md §4.5 mandates for
// temperatures and costs: half-up rounding to a fixed number of decimals.
package numeric

import "math"

// Round rounds v to n decimal digits, half-up (ties away from zero), the
// "banker's-half-up" rule spec.md §4.5 names for temperatures and costs.
func Round(v float64, n int) float64 {
	scale := math.Pow(10, float64(n))
	if v >= 0 {
		return math.Floor(v*scale+0.5) / scale
	}
	return math.Ceil(v*scale-0.5) / scale
}

// Round3 rounds to three decimals (room current temperature, spec.md §3).
func Round3(v float64) float64 { return Round(v, 3) }

// Round2 rounds to two decimals (cost, spec.md §4.4/§4.5).
func Round2(v float64) float64 { return Round(v, 2) }

// Round1 rounds to one decimal (minute-alignment display temperature,
// spec.md §4.4).
func Round1(v float64) float64 { return Round(v, 1) }

// Within reports whether a and b are within tol of each other.
func Within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
