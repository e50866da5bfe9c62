package core

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 2 // prices are in millions of dollars, cents precision

// DefaultMinIncrement is the minimum amount by which a new bid must exceed
// the current price ($0.5M).
const DefaultMinIncrement = 0.5

// RoundPrice rounds a price to monetary precision using decimal arithmetic
// to avoid floating-point drift.
func RoundPrice(price float64) float64 {
	result, _ := decimal.NewFromFloat(price).Round(monetaryPrecision).Float64()
	return result
}

// PriceMeets returns true if price meets or exceeds floor at monetary
// precision. Uses decimal arithmetic so that e.g. 5.499999999 vs 5.5
// compares the way a human reading dollars would expect.
func PriceMeets(price, floor float64) bool {
	priceDecimal := decimal.NewFromFloat(price).Round(monetaryPrecision)
	floorDecimal := decimal.NewFromFloat(floor).Round(monetaryPrecision)

	return priceDecimal.GreaterThanOrEqual(floorDecimal)
}

// MulPrice multiplies a price by a factor using decimal arithmetic and
// rounds the result to monetary precision.
func MulPrice(price, factor float64) float64 {
	priceDecimal := decimal.NewFromFloat(price)
	factorDecimal := decimal.NewFromFloat(factor)

	result, _ := priceDecimal.Mul(factorDecimal).Round(monetaryPrecision).Float64()
	return result
}

// AddPrice adds two prices using decimal arithmetic and rounds the result
// to monetary precision.
func AddPrice(a, b float64) float64 {
	result, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Round(monetaryPrecision).Float64()
	return result
}

// SubPrice subtracts b from a using decimal arithmetic and rounds the
// result to monetary precision.
func SubPrice(a, b float64) float64 {
	result, _ := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Round(monetaryPrecision).Float64()
	return result
}

// MinPrice returns the smaller of two prices at monetary precision.
func MinPrice(a, b float64) float64 {
	if PriceMeets(b, a) {
		return RoundPrice(a)
	}
	return RoundPrice(b)
}
