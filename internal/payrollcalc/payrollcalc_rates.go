package payrollcalc

import (
	"fmt"

	payrollcalcerrors "kazini-payroll/internal/payrollcalc/errors"

	"github.com/shopspring/decimal"
)

// Validate checks that bands start at zero, are contiguous and ascending, and
// that exactly the last band is open-ended. The same rules apply to NHIF brackets.
func (rs RateSet) Validate() error {
	if len(rs.Bands) == 0 {
		return invalidRateSet("no tax bands configured")
	}
	if err := validateRanges("tax band", bandRanges(rs.Bands)); err != nil {
		return err
	}
	for i, b := range rs.Bands {
		if b.RatePercent.IsNegative() || b.RatePercent.GreaterThan(hundred) {
			return invalidRateSet(fmt.Sprintf("tax band %d rate out of range", i+1))
		}
	}

	if rs.PersonalRelief.IsNegative() || rs.DisabilityExemption.IsNegative() {
		return invalidRateSet("relief and exemption must not be negative")
	}

	switch rs.Health.Kind {
	case HealthSHIF:
		if rs.Health.RatePercent.IsNegative() || rs.Health.Floor.IsNegative() {
			return invalidRateSet("SHIF rate and floor must not be negative")
		}
		if rs.Health.Ceiling != nil && rs.Health.Ceiling.LessThan(rs.Health.Floor) {
			return invalidRateSet("SHIF ceiling below floor")
		}
	case HealthNHIF:
		if len(rs.Health.Brackets) == 0 {
			return invalidRateSet("no NHIF brackets configured")
		}
		if err := validateRanges("NHIF bracket", bracketRanges(rs.Health.Brackets)); err != nil {
			return err
		}
	default:
		return invalidRateSet(fmt.Sprintf("unknown health scheme %q", rs.Health.Kind))
	}

	if rs.NSSF.Tier2Limit.LessThan(rs.NSSF.Tier1Limit) {
		return invalidRateSet("NSSF tier 2 limit below tier 1 limit")
	}
	if rs.NSSF.Tier1RatePercent.IsNegative() || rs.NSSF.Tier2RatePercent.IsNegative() {
		return invalidRateSet("NSSF rates must not be negative")
	}
	if rs.HousingLevy.EmployeeRatePercent.IsNegative() || rs.HousingLevy.EmployerRatePercent.IsNegative() {
		return invalidRateSet("housing levy rates must not be negative")
	}

	return nil
}

// ForPeriod returns the rate set expressed for period. Monthly figures are
// multiplied by 12 for annual income; rates are unchanged.
func (rs RateSet) ForPeriod(period IncomePeriod) RateSet {
	if period != PeriodAnnual {
		return rs
	}

	scaled := rs
	scaled.Bands = make([]TaxBand, len(rs.Bands))
	for i, b := range rs.Bands {
		scaled.Bands[i] = TaxBand{
			MinIncome:   b.MinIncome.Mul(monthsInYear),
			MaxIncome:   scalePtr(b.MaxIncome),
			RatePercent: b.RatePercent,
		}
	}
	scaled.PersonalRelief = rs.PersonalRelief.Mul(monthsInYear)
	scaled.DisabilityExemption = rs.DisabilityExemption.Mul(monthsInYear)

	scaled.Health.Floor = rs.Health.Floor.Mul(monthsInYear)
	scaled.Health.Ceiling = scalePtr(rs.Health.Ceiling)
	scaled.Health.Brackets = make([]NHIFBracket, len(rs.Health.Brackets))
	for i, br := range rs.Health.Brackets {
		scaled.Health.Brackets[i] = NHIFBracket{
			MinIncome: br.MinIncome.Mul(monthsInYear),
			MaxIncome: scalePtr(br.MaxIncome),
			Amount:    br.Amount.Mul(monthsInYear),
		}
	}

	scaled.NSSF.Tier1Limit = rs.NSSF.Tier1Limit.Mul(monthsInYear)
	scaled.NSSF.Tier2Limit = rs.NSSF.Tier2Limit.Mul(monthsInYear)

	return scaled
}

type incomeRange struct {
	min decimal.Decimal
	max *decimal.Decimal
}

func bandRanges(bands []TaxBand) []incomeRange {
	out := make([]incomeRange, len(bands))
	for i, b := range bands {
		out[i] = incomeRange{min: b.MinIncome, max: b.MaxIncome}
	}
	return out
}

func bracketRanges(brackets []NHIFBracket) []incomeRange {
	out := make([]incomeRange, len(brackets))
	for i, b := range brackets {
		out[i] = incomeRange{min: b.MinIncome, max: b.MaxIncome}
	}
	return out
}

func validateRanges(kind string, ranges []incomeRange) error {
	if !ranges[0].min.IsZero() {
		return invalidRateSet(kind + "s must start at zero")
	}
	for i, r := range ranges {
		last := i == len(ranges)-1
		if r.max == nil {
			if !last {
				return invalidRateSet(fmt.Sprintf("only the last %s may be open-ended", kind))
			}
			continue
		}
		if last {
			return invalidRateSet(fmt.Sprintf("the last %s must be open-ended", kind))
		}
		if !r.max.GreaterThan(r.min) {
			return invalidRateSet(fmt.Sprintf("%s %d has max not above min", kind, i+1))
		}
		if !ranges[i+1].min.Equal(*r.max) {
			return invalidRateSet(fmt.Sprintf("%s %d is not contiguous with the next one", kind, i+1))
		}
	}
	return nil
}

func scalePtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := d.Mul(monthsInYear)
	return &v
}

func invalidRateSet(reason string) error {
	return payrollcalcerrors.ErrInvalidRateSet.WithDetails(map[string]string{"reason": reason})
}
