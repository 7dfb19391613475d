package payrollconfig

import (
	"context"
	"errors"
	"strconv"
	"time"

	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultPayDay        = 28
	DefaultServiceFeeBps = 200
)

//go:generate mockgen -source=payrollconfig_service.go -destination=mock/payrollconfig_service_mock.go -package=mock
type Service interface {
	Get(ctx context.Context, companyID string) (PayrollConfigResponse, error)
	Upsert(ctx context.Context, companyID, actorID string, req UpsertPayrollConfigRequest) (PayrollConfigResponse, error)
}

type service struct {
	repo          Repository
	registry      *forms.Registry
	defaultFeeBps int
	logger        *zap.Logger
}

func NewService(repo Repository, registry *forms.Registry, defaultFeeBps int, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollconfig.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollconfig.service")
	}
	return &service{repo: repo, registry: registry, defaultFeeBps: defaultFeeBps, logger: l}
}

// Get returns the saved configuration, or the defaults when none is saved.
// Statutory deductions stay off until the company opts in.
func (s *service) Get(ctx context.Context, companyID string) (PayrollConfigResponse, error) {
	cfg, err := s.repo.FindByCompany(ctx, companyID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return PayrollConfigResponse{
			CompanyID:         companyID,
			ServiceFeeRateBps: s.defaultFeeBps,
			PayDay:            DefaultPayDay,
			IsDefault:         true,
		}, nil
	}
	if err != nil {
		s.logger.Error("get payroll config failed", zap.String("company_id", companyID), zap.Error(err))
		return PayrollConfigResponse{}, err
	}
	return mapToResponse(*cfg), nil
}

func (s *service) Upsert(ctx context.Context, companyID, actorID string, req UpsertPayrollConfigRequest) (PayrollConfigResponse, error) {
	if err := s.registry.Validate(forms.PayrollConfig, map[string]string{
		"service_fee_rate_bps": strconv.Itoa(req.ServiceFeeRateBps),
		"pay_day":              strconv.Itoa(req.PayDay),
	}); err != nil {
		return PayrollConfigResponse{}, err
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PayrollConfigResponse{}, apperror.InvalidField("company_id")
	}

	cfg := &PayrollConfig{
		ID:                 uuid.New(),
		CompanyID:          companyUUID,
		ServiceFeeRateBps:  req.ServiceFeeRateBps,
		PayDay:             req.PayDay,
		IncludeNhif:        req.IncludeNhif,
		IncludeNssf:        req.IncludeNssf,
		IncludeHousingLevy: req.IncludeHousingLevy,
		IsPensionable:      req.IsPensionable,
		UpdatedAt:          time.Now(),
	}
	if actorID != "" {
		cfg.UpdatedBy = &actorID
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		s.logger.Error("upsert payroll config failed", zap.String("company_id", companyID), zap.Error(err))
		return PayrollConfigResponse{}, err
	}

	s.logger.Info("payroll config saved",
		zap.String("company_id", companyID),
		zap.Int("service_fee_rate_bps", cfg.ServiceFeeRateBps),
	)
	return mapToResponse(*cfg), nil
}

func mapToResponse(cfg PayrollConfig) PayrollConfigResponse {
	return PayrollConfigResponse{
		CompanyID:          cfg.CompanyID.String(),
		ServiceFeeRateBps:  cfg.ServiceFeeRateBps,
		PayDay:             cfg.PayDay,
		IncludeNhif:        cfg.IncludeNhif,
		IncludeNssf:        cfg.IncludeNssf,
		IncludeHousingLevy: cfg.IncludeHousingLevy,
		IsPensionable:      cfg.IsPensionable,
		UpdatedAt:          cfg.UpdatedAt.Format(time.RFC3339),
	}
}
