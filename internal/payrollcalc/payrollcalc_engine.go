package payrollcalc

import (
	payrollcalcerrors "kazini-payroll/internal/payrollcalc/errors"
	"kazini-payroll/internal/shared/apperror"

	"github.com/shopspring/decimal"
)

// Calculate produces the statutory breakdown for one salary. Every component is
// rounded half-up to the cent before totals are formed, so
// NetSalary + TotalDeductions == GrossSalary holds exactly.
func Calculate(in PayrollInput, rates RateSet) (PayrollResult, error) {
	if err := validateInput(in); err != nil {
		return PayrollResult{}, err
	}
	if err := rates.Validate(); err != nil {
		return PayrollResult{}, err
	}

	rs := rates.ForPeriod(in.IncomePeriod)
	gross := roundMoney(in.BasicSalary.Add(in.Allowances))

	result := PayrollResult{
		IncomePeriod:    in.IncomePeriod,
		TaxYear:         rs.TaxYear,
		RateSetVersion:  rs.Version,
		CalculationDate: in.CalculationDate,
		HealthScheme:    rs.Health.Kind,
		GrossSalary:     gross,
		Nhif:            decimal.Zero,
		Nssf:            decimal.Zero,
		HousingLevy:     decimal.Zero,
	}

	if in.IncludeNhif {
		result.Nhif = roundMoney(healthContribution(gross, rs.Health))
	}
	if in.IncludeNssf {
		result.Nssf = roundMoney(nssfContribution(gross, rs.NSSF))
	}
	if in.IncludeHousingLevy {
		result.HousingLevy = roundMoney(percentOf(gross, rs.HousingLevy.EmployeeRatePercent))
		result.HousingLevyEmployer = roundMoney(percentOf(gross, rs.HousingLevy.EmployerRatePercent))
	}

	taxable := gross
	if in.IsPensionable && rs.NSSFDeductibleWhenPensionable {
		taxable = taxable.Sub(result.Nssf)
	}
	if rs.HealthDeductible {
		taxable = taxable.Sub(result.Nhif)
	}
	if rs.HousingLevyDeductible {
		taxable = taxable.Sub(result.HousingLevy)
	}
	if in.HasDisabilityExemption {
		exempt := decimal.Min(rs.DisabilityExemption, decimal.Max(taxable, decimal.Zero))
		result.DisabilityExemptionApplied = exempt
		taxable = taxable.Sub(exempt)
	}
	taxable = decimal.Max(taxable, decimal.Zero)
	result.TaxableIncome = taxable

	result.PayeBeforeRelief = roundMoney(bandTax(taxable, rs.Bands))
	result.PersonalReliefApplied = decimal.Min(rs.PersonalRelief, result.PayeBeforeRelief)
	result.Paye = result.PayeBeforeRelief.Sub(result.PersonalReliefApplied)

	result.TotalDeductions = result.Paye.Add(result.Nhif).Add(result.Nssf).Add(result.HousingLevy)
	if result.TotalDeductions.GreaterThan(gross) {
		return PayrollResult{}, payrollcalcerrors.ErrDeductionsExceedGross.WithDetails(map[string]string{
			"gross_salary":     gross.StringFixed(moneyScale),
			"total_deductions": result.TotalDeductions.StringFixed(moneyScale),
		})
	}
	result.NetSalary = gross.Sub(result.TotalDeductions)

	return result, nil
}

func validateInput(in PayrollInput) error {
	fields := map[string]string{}
	if in.BasicSalary.IsNegative() {
		fields["basic_salary"] = "Basic salary must not be negative"
	}
	if in.Allowances.IsNegative() {
		fields["allowances"] = "Allowances must not be negative"
	}
	if in.IncomePeriod != PeriodMonthly && in.IncomePeriod != PeriodAnnual {
		fields["income_period"] = "Income period must be MONTHLY or ANNUAL"
	}
	if in.CalculationDate.IsZero() {
		fields["calculation_date"] = "Calculation date is required"
	}
	if len(fields) == 0 {
		return nil
	}

	list := make([]string, 0, len(fields))
	for _, key := range []string{"basic_salary", "allowances", "income_period", "calculation_date"} {
		if msg, ok := fields[key]; ok {
			list = append(list, msg)
		}
	}
	return payrollcalcerrors.ErrInvalidInput.WithDetails(apperror.FieldErrors{Fields: fields, Errors: list})
}

func bandTax(taxable decimal.Decimal, bands []TaxBand) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bands {
		if !taxable.GreaterThan(b.MinIncome) {
			break
		}
		upper := taxable
		if b.MaxIncome != nil && b.MaxIncome.LessThan(taxable) {
			upper = *b.MaxIncome
		}
		total = total.Add(percentOf(upper.Sub(b.MinIncome), b.RatePercent))
	}
	return total
}

func healthContribution(gross decimal.Decimal, scheme HealthScheme) decimal.Decimal {
	if scheme.Kind == HealthNHIF {
		for _, br := range scheme.Brackets {
			if gross.LessThan(br.MinIncome) {
				continue
			}
			if br.MaxIncome == nil || gross.LessThan(*br.MaxIncome) {
				return br.Amount
			}
		}
		return decimal.Zero
	}

	amount := decimal.Max(percentOf(gross, scheme.RatePercent), scheme.Floor)
	if scheme.Ceiling != nil {
		amount = decimal.Min(amount, *scheme.Ceiling)
	}
	return amount
}

func nssfContribution(gross decimal.Decimal, tiers NSSFTiers) decimal.Decimal {
	tier1Base := decimal.Min(gross, tiers.Tier1Limit)
	tier2Base := decimal.Max(decimal.Min(gross, tiers.Tier2Limit).Sub(tiers.Tier1Limit), decimal.Zero)
	return percentOf(tier1Base, tiers.Tier1RatePercent).Add(percentOf(tier2Base, tiers.Tier2RatePercent))
}
