package taxrate

import (
	"errors"
	"time"

	"kazini-payroll/internal/payrollcalc"
	payrollcalcerrors "kazini-payroll/internal/payrollcalc/errors"
	"kazini-payroll/internal/shared/apperror"
	taxrateerrors "kazini-payroll/internal/taxrate/errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func percent(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func centsPtr(c *int64) *decimal.Decimal {
	if c == nil {
		return nil
	}
	d := payrollcalc.FromCents(*c)
	return &d
}

// ToEngine converts the tables into the calculation engine's rate set.
func (t RateTables) ToEngine(taxYear, version int, effectiveFrom time.Time) payrollcalc.RateSet {
	rs := payrollcalc.RateSet{
		TaxYear:             taxYear,
		Version:             version,
		EffectiveFrom:       effectiveFrom,
		PersonalRelief:      payrollcalc.FromCents(t.PersonalRelief),
		DisabilityExemption: payrollcalc.FromCents(t.DisabilityExemption),
		Health: payrollcalc.HealthScheme{
			Kind:        payrollcalc.HealthSchemeKind(t.Health.Kind),
			RatePercent: percent(t.Health.RatePercent),
			Floor:       payrollcalc.FromCents(t.Health.Floor),
			Ceiling:     centsPtr(t.Health.Ceiling),
		},
		NSSF: payrollcalc.NSSFTiers{
			Tier1RatePercent: percent(t.NSSF.Tier1RatePercent),
			Tier1Limit:       payrollcalc.FromCents(t.NSSF.Tier1Limit),
			Tier2RatePercent: percent(t.NSSF.Tier2RatePercent),
			Tier2Limit:       payrollcalc.FromCents(t.NSSF.Tier2Limit),
		},
		HousingLevy: payrollcalc.HousingLevyRates{
			EmployeeRatePercent: percent(t.HousingLevy.EmployeeRatePercent),
			EmployerRatePercent: percent(t.HousingLevy.EmployerRatePercent),
		},
		NSSFDeductibleWhenPensionable: t.NSSFDeductibleWhenPensionable,
		HealthDeductible:              t.HealthDeductible,
		HousingLevyDeductible:         t.HousingLevyDeductible,
	}
	for _, b := range t.Bands {
		rs.Bands = append(rs.Bands, payrollcalc.TaxBand{
			MinIncome:   payrollcalc.FromCents(b.MinIncome),
			MaxIncome:   centsPtr(b.MaxIncome),
			RatePercent: percent(b.RatePercent),
		})
	}
	for _, br := range t.Health.Brackets {
		rs.Health.Brackets = append(rs.Health.Brackets, payrollcalc.NHIFBracket{
			MinIncome: payrollcalc.FromCents(br.MinIncome),
			MaxIncome: centsPtr(br.MaxIncome),
			Amount:    payrollcalc.FromCents(br.Amount),
		})
	}
	return rs
}

// ToEngine converts a stored rate set for the calculation engine.
func (r TaxRateSetResponse) ToEngine() payrollcalc.RateSet {
	effectiveFrom, _ := time.Parse(dateLayout, r.EffectiveFrom)
	return r.RateTables.ToEngine(r.TaxYear, r.Version, effectiveFrom)
}

// validateRequest parses the date and runs the engine's structural checks so a
// set that cannot be calculated with is never stored.
func validateRequest(req CreateTaxRateRequest) (time.Time, error) {
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return time.Time{}, taxrateerrors.ErrInvalidEffectiveFrom
	}

	if err := req.RateTables.ToEngine(req.TaxYear, 0, effectiveFrom).Validate(); err != nil {
		var appErr *apperror.AppError
		if errors.Is(err, payrollcalcerrors.ErrInvalidRateSet) && errors.As(err, &appErr) {
			return time.Time{}, taxrateerrors.ErrInvalidRateSet.WithDetails(appErr.Details)
		}
		return time.Time{}, err
	}
	return effectiveFrom, nil
}

func toEntity(req CreateTaxRateRequest, effectiveFrom time.Time, version int, actorID string) *TaxRateSet {
	id := uuid.New()
	t := req.RateTables
	set := &TaxRateSet{
		ID:                             id,
		TaxYear:                        req.TaxYear,
		Version:                        version,
		EffectiveFrom:                  effectiveFrom,
		IsActive:                       true,
		PersonalRelief:                 t.PersonalRelief,
		DisabilityExemption:            t.DisabilityExemption,
		HealthScheme:                   t.Health.Kind,
		HealthRatePercent:              percent(t.Health.RatePercent),
		HealthFloor:                    t.Health.Floor,
		HealthCeiling:                  t.Health.Ceiling,
		NSSFTier1RatePercent:           percent(t.NSSF.Tier1RatePercent),
		NSSFTier1Limit:                 t.NSSF.Tier1Limit,
		NSSFTier2RatePercent:           percent(t.NSSF.Tier2RatePercent),
		NSSFTier2Limit:                 t.NSSF.Tier2Limit,
		HousingLevyEmployeeRatePercent: percent(t.HousingLevy.EmployeeRatePercent),
		HousingLevyEmployerRatePercent: percent(t.HousingLevy.EmployerRatePercent),
		NSSFDeductibleWhenPensionable:  t.NSSFDeductibleWhenPensionable,
		HealthDeductible:               t.HealthDeductible,
		HousingLevyDeductible:          t.HousingLevyDeductible,
	}
	if actorID != "" {
		set.CreatedBy = &actorID
	}
	for i, b := range t.Bands {
		set.Bands = append(set.Bands, TaxBand{
			ID:          uuid.New(),
			RateSetID:   id,
			Position:    i,
			MinIncome:   b.MinIncome,
			MaxIncome:   b.MaxIncome,
			RatePercent: percent(b.RatePercent),
		})
	}
	for i, br := range t.Health.Brackets {
		set.NHIFBrackets = append(set.NHIFBrackets, NHIFBracket{
			ID:        uuid.New(),
			RateSetID: id,
			Position:  i,
			MinIncome: br.MinIncome,
			MaxIncome: br.MaxIncome,
			Amount:    br.Amount,
		})
	}
	return set
}

func mapToResponse(set TaxRateSet) TaxRateSetResponse {
	resp := TaxRateSetResponse{
		ID:            set.ID.String(),
		TaxYear:       set.TaxYear,
		Version:       set.Version,
		EffectiveFrom: set.EffectiveFrom.Format(dateLayout),
		IsActive:      set.IsActive,
		CreatedAt:     set.CreatedAt.Format(time.RFC3339),
		RateTables: RateTables{
			PersonalRelief:      set.PersonalRelief,
			DisabilityExemption: set.DisabilityExemption,
			Health: HealthSchemeDTO{
				Kind:        set.HealthScheme,
				RatePercent: set.HealthRatePercent.InexactFloat64(),
				Floor:       set.HealthFloor,
				Ceiling:     set.HealthCeiling,
			},
			NSSF: NSSFDTO{
				Tier1RatePercent: set.NSSFTier1RatePercent.InexactFloat64(),
				Tier1Limit:       set.NSSFTier1Limit,
				Tier2RatePercent: set.NSSFTier2RatePercent.InexactFloat64(),
				Tier2Limit:       set.NSSFTier2Limit,
			},
			HousingLevy: HousingLevyDTO{
				EmployeeRatePercent: set.HousingLevyEmployeeRatePercent.InexactFloat64(),
				EmployerRatePercent: set.HousingLevyEmployerRatePercent.InexactFloat64(),
			},
			NSSFDeductibleWhenPensionable: set.NSSFDeductibleWhenPensionable,
			HealthDeductible:              set.HealthDeductible,
			HousingLevyDeductible:         set.HousingLevyDeductible,
		},
	}
	for _, b := range set.Bands {
		resp.Bands = append(resp.Bands, TaxBandDTO{
			MinIncome:   b.MinIncome,
			MaxIncome:   b.MaxIncome,
			RatePercent: b.RatePercent.InexactFloat64(),
		})
	}
	for _, br := range set.NHIFBrackets {
		resp.Health.Brackets = append(resp.Health.Brackets, NHIFBracketDTO{
			MinIncome: br.MinIncome,
			MaxIncome: br.MaxIncome,
			Amount:    br.Amount,
		})
	}
	return resp
}

func mapToListResponse(sets []TaxRateSet) []TaxRateSetResponse {
	out := make([]TaxRateSetResponse, 0, len(sets))
	for _, s := range sets {
		out = append(out, mapToResponse(s))
	}
	return out
}
