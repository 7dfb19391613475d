package company

import (
	"context"
	"database/sql"
	"strings"
	"time"

	companyerrors "kazini-payroll/internal/company/errors"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/rbac"
	"kazini-payroll/internal/shared/contextutil"
	"kazini-payroll/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WalletOpener opens the company wallet inside the registration transaction.
type WalletOpener interface {
	CreateWallet(ctx context.Context, tx *sql.Tx, companyID string) (wallet.WalletResponse, error)
}

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	Register(ctx context.Context, userID, currentCompanyID string, req RegisterCompanyRequest) (RegisterCompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	wallets  WalletOpener
	roles    rbac.Repository
	registry *forms.Registry
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	wallets WalletOpener,
	roles rbac.Repository,
	registry *forms.Registry,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, wallets: wallets, roles: roles, registry: registry, logger: l}
}

func normalize(req RegisterCompanyRequest) RegisterCompanyRequest {
	return RegisterCompanyRequest{
		Name:               strings.TrimSpace(req.Name),
		RegistrationNumber: strings.ToUpper(strings.TrimSpace(req.RegistrationNumber)),
		KraPin:             strings.ToUpper(strings.TrimSpace(req.KraPin)),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              strings.ReplaceAll(strings.TrimSpace(req.Phone), " ", ""),
	}
}

func (s *service) validate(req RegisterCompanyRequest) error {
	return s.registry.Validate(forms.CompanyRegistration, map[string]string{
		"name":                req.Name,
		"registration_number": req.RegistrationNumber,
		"kra_pin":             req.KraPin,
		"email":               req.Email,
		"phone":               req.Phone,
	})
}

// Register creates the company, its wallet and the caller's owner role in one
// transaction.
func (s *service) Register(ctx context.Context, userID, currentCompanyID string, req RegisterCompanyRequest) (RegisterCompanyResponse, error) {
	if currentCompanyID != "" {
		return RegisterCompanyResponse{}, companyerrors.ErrAlreadyMember
	}

	req = normalize(req)
	if err := s.validate(req); err != nil {
		return RegisterCompanyResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RegisterCompanyResponse{}, err
	}
	defer tx.Rollback()

	comp := &Company{
		ID:                 uuid.New(),
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		KraPin:             req.KraPin,
		Email:              req.Email,
		Phone:              req.Phone,
		IsActive:           true,
		CreatedBy:          userID,
		CreatedAt:          time.Now(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, comp); err != nil {
		return RegisterCompanyResponse{}, mapRepositoryError(err)
	}

	w, err := s.wallets.CreateWallet(ctx, tx, comp.ID.String())
	if err != nil {
		return RegisterCompanyResponse{}, err
	}

	if err := s.roles.WithTx(tx).AssignRole(ctx, &rbac.UserRole{
		ID:        uuid.NewString(),
		CompanyID: comp.ID.String(),
		UserID:    userID,
		Role:      rbac.RoleOwner,
	}); err != nil {
		return RegisterCompanyResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return RegisterCompanyResponse{}, err
	}

	contextutil.GetLogger(ctx, s.logger).Info("company registered",
		zap.String("company_id", comp.ID.String()),
		zap.String("wallet_id", w.ID),
		zap.String("owner_id", userID),
	)
	return RegisterCompanyResponse{Company: mapToResponse(comp), WalletID: w.ID, Role: rbac.RoleOwner}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(comp), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}

	merged := RegisterCompanyRequest{
		Name:               comp.Name,
		RegistrationNumber: comp.RegistrationNumber,
		KraPin:             comp.KraPin,
		Email:              comp.Email,
		Phone:              comp.Phone,
	}
	if req.Name != "" {
		merged.Name = req.Name
	}
	if req.Email != "" {
		merged.Email = req.Email
	}
	if req.Phone != "" {
		merged.Phone = req.Phone
	}
	merged = normalize(merged)
	if err := s.validate(merged); err != nil {
		return CompanyResponse{}, err
	}

	comp.Name = merged.Name
	comp.Email = merged.Email
	comp.Phone = merged.Phone
	if err := s.repo.Update(ctx, comp); err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(comp), nil
}

func mapToResponse(c *Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID.String(),
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		KraPin:             c.KraPin,
		Email:              c.Email,
		Phone:              c.Phone,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt.Format(time.RFC3339),
	}
}
