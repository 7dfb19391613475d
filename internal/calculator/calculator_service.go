package calculator

import (
	"context"
	"time"

	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/shared/apperror"

	"go.uber.org/zap"
)

// RateSource supplies the rate set in effect on a given date.
type RateSource interface {
	RateSetAt(ctx context.Context, at time.Time) (payrollcalc.RateSet, error)
}

//go:generate mockgen -source=calculator_service.go -destination=mock/calculator_service_mock.go -package=mock
type Service interface {
	Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error)
}

type service struct {
	rates  RateSource
	now    func() time.Time
	logger *zap.Logger
}

func NewService(rates RateSource, logger ...*zap.Logger) Service {
	l := zap.L().Named("calculator.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("calculator.service")
	}
	return &service{rates: rates, now: time.Now, logger: l}
}

func (s *service) Calculate(ctx context.Context, req CalculateRequest) (CalculateResponse, error) {
	calcDate := s.now()
	if req.CalculationDate != "" {
		parsed, err := time.Parse(time.DateOnly, req.CalculationDate)
		if err != nil {
			return CalculateResponse{}, apperror.InvalidField("calculation_date")
		}
		calcDate = parsed
	}

	rates, err := s.rates.RateSetAt(ctx, calcDate)
	if err != nil {
		return CalculateResponse{}, err
	}

	result, err := payrollcalc.Calculate(payrollcalc.PayrollInput{
		BasicSalary:            payrollcalc.FromCents(req.BasicSalary),
		Allowances:             payrollcalc.FromCents(req.Allowances),
		IncomePeriod:           payrollcalc.IncomePeriod(req.IncomePeriod),
		IncludeNhif:            req.IncludeNhif,
		IncludeNssf:            req.IncludeNssf,
		IncludeHousingLevy:     req.IncludeHousingLevy,
		IsPensionable:          req.IsPensionable,
		HasDisabilityExemption: req.HasDisabilityExemption,
		CalculationDate:        calcDate,
	}, rates)
	if err != nil {
		s.logger.Debug("calculation rejected", zap.Error(err))
		return CalculateResponse{}, err
	}

	return mapToResponse(result), nil
}

func mapToResponse(r payrollcalc.PayrollResult) CalculateResponse {
	return CalculateResponse{
		IncomePeriod:               string(r.IncomePeriod),
		TaxYear:                    r.TaxYear,
		RateSetVersion:             r.RateSetVersion,
		CalculationDate:            r.CalculationDate.Format(time.DateOnly),
		HealthScheme:               string(r.HealthScheme),
		GrossSalary:                payrollcalc.ToCents(r.GrossSalary),
		TaxableIncome:              payrollcalc.ToCents(r.TaxableIncome),
		DisabilityExemptionApplied: payrollcalc.ToCents(r.DisabilityExemptionApplied),
		PayeBeforeRelief:           payrollcalc.ToCents(r.PayeBeforeRelief),
		PersonalReliefApplied:      payrollcalc.ToCents(r.PersonalReliefApplied),
		Paye:                       payrollcalc.ToCents(r.Paye),
		Nhif:                       payrollcalc.ToCents(r.Nhif),
		Nssf:                       payrollcalc.ToCents(r.Nssf),
		HousingLevy:                payrollcalc.ToCents(r.HousingLevy),
		HousingLevyEmployer:        payrollcalc.ToCents(r.HousingLevyEmployer),
		TotalDeductions:            payrollcalc.ToCents(r.TotalDeductions),
		NetSalary:                  payrollcalc.ToCents(r.NetSalary),
	}
}
