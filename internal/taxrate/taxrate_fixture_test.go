package taxrate_test

import "kazini-payroll/internal/taxrate"

func cents(v int64) *int64 { return &v }

// kenyaTables is the 2024 schedule as amended in December 2024, in cents.
func kenyaTables() taxrate.RateTables {
	return taxrate.RateTables{
		Bands: []taxrate.TaxBandDTO{
			{MinIncome: 0, MaxIncome: cents(2400000), RatePercent: 10},
			{MinIncome: 2400000, MaxIncome: cents(3233300), RatePercent: 25},
			{MinIncome: 3233300, MaxIncome: cents(50000000), RatePercent: 30},
			{MinIncome: 50000000, MaxIncome: cents(80000000), RatePercent: 32.5},
			{MinIncome: 80000000, RatePercent: 35},
		},
		PersonalRelief:      240000,
		DisabilityExemption: 15000000,
		Health:              taxrate.HealthSchemeDTO{Kind: "SHIF", RatePercent: 2.75, Floor: 30000},
		NSSF: taxrate.NSSFDTO{
			Tier1RatePercent: 6, Tier1Limit: 700000,
			Tier2RatePercent: 6, Tier2Limit: 3600000,
		},
		HousingLevy:                   taxrate.HousingLevyDTO{EmployeeRatePercent: 1.5, EmployerRatePercent: 1.5},
		NSSFDeductibleWhenPensionable: true,
		HealthDeductible:              true,
		HousingLevyDeductible:         true,
	}
}
