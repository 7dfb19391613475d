package payrollcalc_test

import (
	"math"
	"testing"

	"kazini-payroll/internal/payrollcalc"

	"github.com/stretchr/testify/assert"
)

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, "1234.56", payrollcalc.FromCents(123456).StringFixed(2))
	assert.Equal(t, int64(123457), payrollcalc.ToCents(dec("1234.565")))
	assert.Equal(t, int64(0), payrollcalc.ToCents(dec("0.004")))
}

func TestApplyBasisPoints_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(190496), payrollcalc.ApplyBasisPoints(9524790, 200))
	assert.Equal(t, int64(1), payrollcalc.ApplyBasisPoints(25, 200))
	assert.Equal(t, int64(0), payrollcalc.ApplyBasisPoints(24, 200))
	assert.Equal(t, int64(0), payrollcalc.ApplyBasisPoints(9524790, 0))
}

func TestAmountFromFloat(t *testing.T) {
	_, err := payrollcalc.AmountFromFloat(math.NaN())
	assert.Error(t, err)

	_, err = payrollcalc.AmountFromFloat(math.Inf(1))
	assert.Error(t, err)

	d, err := payrollcalc.AmountFromFloat(125000.5)
	assert.NoError(t, err)
	assert.Equal(t, "125000.50", d.StringFixed(2))
}
