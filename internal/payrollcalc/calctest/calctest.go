// Package calctest provides rate sets for tests of packages that run payroll
// calculations.
package calctest

import (
	"time"

	"kazini-payroll/internal/payrollcalc"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// KenyaRates returns the 2024 Kenyan monthly rate set with SHIF health cover.
func KenyaRates() payrollcalc.RateSet {
	return payrollcalc.RateSet{
		TaxYear:       2024,
		Version:       3,
		EffectiveFrom: time.Date(2024, 12, 27, 0, 0, 0, 0, time.UTC),
		Bands: []payrollcalc.TaxBand{
			{MinIncome: dec("0"), MaxIncome: decPtr("24000"), RatePercent: dec("10")},
			{MinIncome: dec("24000"), MaxIncome: decPtr("32333"), RatePercent: dec("25")},
			{MinIncome: dec("32333"), MaxIncome: decPtr("500000"), RatePercent: dec("30")},
			{MinIncome: dec("500000"), MaxIncome: decPtr("800000"), RatePercent: dec("32.5")},
			{MinIncome: dec("800000"), RatePercent: dec("35")},
		},
		PersonalRelief:      dec("2400"),
		DisabilityExemption: dec("150000"),
		Health: payrollcalc.HealthScheme{
			Kind:        payrollcalc.HealthSHIF,
			RatePercent: dec("2.75"),
			Floor:       dec("300"),
		},
		NSSF: payrollcalc.NSSFTiers{
			Tier1RatePercent: dec("6"),
			Tier1Limit:       dec("7000"),
			Tier2RatePercent: dec("6"),
			Tier2Limit:       dec("36000"),
		},
		HousingLevy: payrollcalc.HousingLevyRates{
			EmployeeRatePercent: dec("1.5"),
			EmployerRatePercent: dec("1.5"),
		},
		NSSFDeductibleWhenPensionable: true,
		HealthDeductible:              true,
		HousingLevyDeductible:         true,
	}
}
