// Package payrollcalc computes a statutory payroll breakdown (PAYE, health
// contribution, NSSF, housing levy) from a salary and an externally supplied
// rate set. It performs no I/O.
package payrollcalc

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomePeriod string

const (
	PeriodMonthly IncomePeriod = "MONTHLY"
	PeriodAnnual  IncomePeriod = "ANNUAL"
)

type HealthSchemeKind string

const (
	// HealthSHIF is a percentage of gross with a floor and optional ceiling.
	HealthSHIF HealthSchemeKind = "SHIF"
	// HealthNHIF is the legacy flat amount per gross-income bracket.
	HealthNHIF HealthSchemeKind = "NHIF"
)

// PayrollInput amounts are in major currency units.
type PayrollInput struct {
	BasicSalary            decimal.Decimal
	Allowances             decimal.Decimal
	IncomePeriod           IncomePeriod
	IncludeNhif            bool
	IncludeNssf            bool
	IncludeHousingLevy     bool
	IsPensionable          bool
	HasDisabilityExemption bool
	CalculationDate        time.Time
}

type TaxBand struct {
	MinIncome   decimal.Decimal
	MaxIncome   *decimal.Decimal // nil on the top band
	RatePercent decimal.Decimal
}

type NHIFBracket struct {
	MinIncome decimal.Decimal
	MaxIncome *decimal.Decimal
	Amount    decimal.Decimal
}

type HealthScheme struct {
	Kind        HealthSchemeKind
	RatePercent decimal.Decimal
	Floor       decimal.Decimal
	Ceiling     *decimal.Decimal
	Brackets    []NHIFBracket
}

// NSSFTiers: tier 1 applies to pay up to Tier1Limit, tier 2 to pay between
// Tier1Limit and Tier2Limit.
type NSSFTiers struct {
	Tier1RatePercent decimal.Decimal
	Tier1Limit       decimal.Decimal
	Tier2RatePercent decimal.Decimal
	Tier2Limit       decimal.Decimal
}

type HousingLevyRates struct {
	EmployeeRatePercent decimal.Decimal
	EmployerRatePercent decimal.Decimal
}

// RateSet holds the regulatory data for one tax year, expressed per month.
type RateSet struct {
	TaxYear             int
	Version             int
	EffectiveFrom       time.Time
	Bands               []TaxBand
	PersonalRelief      decimal.Decimal
	DisabilityExemption decimal.Decimal
	Health              HealthScheme
	NSSF                NSSFTiers
	HousingLevy         HousingLevyRates

	// Deductibility of contributions from the PAYE base.
	NSSFDeductibleWhenPensionable bool
	HealthDeductible              bool
	HousingLevyDeductible         bool
}

type PayrollResult struct {
	IncomePeriod    IncomePeriod
	TaxYear         int
	RateSetVersion  int
	CalculationDate time.Time
	HealthScheme    HealthSchemeKind

	GrossSalary                decimal.Decimal
	TaxableIncome              decimal.Decimal
	DisabilityExemptionApplied decimal.Decimal
	PayeBeforeRelief           decimal.Decimal
	PersonalReliefApplied      decimal.Decimal

	Paye                decimal.Decimal
	Nhif                decimal.Decimal
	Nssf                decimal.Decimal
	HousingLevy         decimal.Decimal
	HousingLevyEmployer decimal.Decimal

	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// StatutoryDeductions is every deduction except PAYE.
func (r PayrollResult) StatutoryDeductions() decimal.Decimal {
	return r.Nhif.Add(r.Nssf).Add(r.HousingLevy)
}
