package service

import "math"

// RoundingPrecision is the multiplier used to round monetary values to two
// decimal places in API-facing summaries.
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places.
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}
