package payrollcalc

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const moneyScale = 2

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
	basisPoints  = decimal.NewFromInt(10000)
)

// FromCents converts minor units to a major-unit decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -moneyScale)
}

// ToCents rounds half-up to the cent and returns minor units.
func ToCents(d decimal.Decimal) int64 {
	return roundMoney(d).Shift(moneyScale).IntPart()
}

// AmountFromFloat rejects NaN and infinities instead of turning them into zero.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("amount %v is not a finite number", f)
	}
	return decimal.NewFromFloat(f), nil
}

// ApplyBasisPoints returns round_half_up(cents * bps / 10000).
func ApplyBasisPoints(cents int64, bps int) int64 {
	fee := decimal.NewFromInt(cents).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(basisPoints)
	return fee.Round(0).IntPart()
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(moneyScale)
}

func percentOf(amount, ratePercent decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratePercent).Div(hundred)
}
