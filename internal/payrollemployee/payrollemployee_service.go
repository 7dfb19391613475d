package payrollemployee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/payrollcalc"
	payrollemployeeerrors "kazini-payroll/internal/payrollemployee/errors"
	"kazini-payroll/internal/shared/apperror"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BankLookup resolves bank codes to banks with their account formats.
type BankLookup interface {
	Lookup(ctx context.Context, codes []string) (map[string]bankcode.Bank, error)
}

//go:generate mockgen -source=payrollemployee_service.go -destination=mock/payrollemployee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	List(ctx context.Context, companyID string, activeOnly bool) ([]EmployeeResponse, error)
	BulkUpload(ctx context.Context, companyID, actorID string, r io.Reader) (BulkUploadResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	banks    BankLookup
	registry *forms.Registry
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, banks BankLookup, registry *forms.Registry, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollemployee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollemployee.service")
	}
	return &service{db: db, repo: repo, banks: banks, registry: registry, logger: l}
}

func (s *service) Create(ctx context.Context, companyID, actorID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, apperror.InvalidField("company_id")
	}

	bank, err := s.checkRecord(ctx, req.FullName, req.BankCode, req.AccountNumber, req.Amount)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp := &PayrollEmployee{
		ID:            uuid.New(),
		CompanyID:     companyUUID,
		FullName:      strings.TrimSpace(req.FullName),
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		IsActive:      true,
	}
	if actorID != "" {
		emp.CreatedBy = &actorID
	}

	if err := s.repo.Create(ctx, emp); err != nil {
		s.logger.Error("create employee failed", zap.String("company_id", companyID), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	resp := mapToResponse(*emp)
	resp.BankName = bank.Name
	return resp, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	bank, err := s.checkRecord(ctx, req.FullName, req.BankCode, req.AccountNumber, req.Amount)
	if err != nil {
		return EmployeeResponse{}, err
	}

	emp.FullName = strings.TrimSpace(req.FullName)
	emp.BankCode = req.BankCode
	emp.AccountNumber = req.AccountNumber
	emp.Amount = req.Amount

	if err := s.repo.Update(ctx, emp); err != nil {
		s.logger.Error("update employee failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	resp := mapToResponse(*emp)
	resp.BankName = bank.Name
	return resp, nil
}

// Deactivate takes the record out of future cycles. Records are never hard
// deleted because processed cycles reference them.
func (s *service) Deactivate(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if !emp.IsActive {
		return EmployeeResponse{}, payrollemployeeerrors.ErrAlreadyInactive
	}

	emp.IsActive = false
	if err := s.repo.Update(ctx, emp); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("employee deactivated", zap.String("company_id", companyID), zap.String("employee_id", id))
	return mapToResponse(*emp), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	emp, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*emp), nil
}

func (s *service) List(ctx context.Context, companyID string, activeOnly bool) ([]EmployeeResponse, error) {
	emps, err := s.repo.FindAll(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(emps))
	for _, e := range emps {
		codes = append(codes, e.BankCode)
	}
	banks, err := s.banks.Lookup(ctx, codes)
	if err != nil {
		s.logger.Warn("bank lookup failed, listing without bank names", zap.Error(err))
		banks = nil
	}

	out := make([]EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp := mapToResponse(e)
		if b, ok := banks[e.BankCode]; ok {
			resp.BankName = b.Name
		}
		out = append(out, resp)
	}
	return out, nil
}

// BulkUpload validates every row before writing anything. Any invalid row
// rejects the whole file; otherwise all rows are inserted in one transaction.
func (s *service) BulkUpload(ctx context.Context, companyID, actorID string, r io.Reader) (BulkUploadResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BulkUploadResponse{}, apperror.InvalidField("company_id")
	}

	var rows []UploadRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return BulkUploadResponse{}, payrollemployeeerrors.ErrEmptyUpload
		}
		return BulkUploadResponse{}, payrollemployeeerrors.ErrInvalidCSV.WithDetails(map[string]string{"reason": err.Error()})
	}
	if len(rows) == 0 {
		return BulkUploadResponse{}, payrollemployeeerrors.ErrEmptyUpload
	}

	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, strings.TrimSpace(row.BankCode))
	}
	banks, err := s.banks.Lookup(ctx, codes)
	if err != nil {
		return BulkUploadResponse{}, err
	}

	rules, err := s.registry.Get(forms.PayrollEmployee)
	if err != nil {
		return BulkUploadResponse{}, err
	}

	var (
		rowErrors []RowError
		emps      = make([]PayrollEmployee, 0, len(rows))
		seen      = make(map[string]int, len(rows))
		total     int64
	)
	for i, row := range rows {
		line := i + 1
		values := map[string]string{
			"full_name":      strings.TrimSpace(row.FullName),
			"bank_code":      strings.TrimSpace(row.BankCode),
			"account_number": strings.TrimSpace(row.AccountNumber),
			"amount":         strings.TrimSpace(row.Amount),
		}

		fields := rules.Validate(values)
		if fields == nil {
			fields = map[string]string{}
		}

		cents, amountErr := parseAmount(values["amount"])
		if amountErr != "" {
			if _, ok := fields["amount"]; !ok {
				fields["amount"] = amountErr
			}
		}

		if _, ok := fields["bank_code"]; !ok {
			bank, known := banks[values["bank_code"]]
			switch {
			case !known:
				fields["bank_code"] = fmt.Sprintf("Bank code %s is not recognised", values["bank_code"])
			case !bank.AccountValid(values["account_number"]):
				if _, ok := fields["account_number"]; !ok {
					fields["account_number"] = fmt.Sprintf("Account number does not match the %s format", bank.Name)
				}
			}
		}

		accountKey := values["bank_code"] + "/" + values["account_number"]
		if first, dup := seen[accountKey]; dup {
			if _, ok := fields["account_number"]; !ok {
				fields["account_number"] = fmt.Sprintf("Account number repeats row %d", first)
			}
		} else {
			seen[accountKey] = line
		}

		if len(fields) > 0 {
			rowErrors = append(rowErrors, RowError{Row: line, Fields: fields})
			continue
		}

		total += cents
		emp := PayrollEmployee{
			ID:            uuid.New(),
			CompanyID:     companyUUID,
			FullName:      values["full_name"],
			BankCode:      values["bank_code"],
			AccountNumber: values["account_number"],
			Amount:        cents,
			IsActive:      true,
		}
		if actorID != "" {
			emp.CreatedBy = &actorID
		}
		emps = append(emps, emp)
	}

	if len(rowErrors) > 0 {
		s.logger.Info("bulk upload rejected",
			zap.String("company_id", companyID),
			zap.Int("rows", len(rows)),
			zap.Int("invalid_rows", len(rowErrors)),
		)
		return BulkUploadResponse{}, payrollemployeeerrors.ErrUploadRejected.WithDetails(rejection(rowErrors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BulkUploadResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).CreateBatch(ctx, emps); err != nil {
		s.logger.Error("bulk insert failed", zap.String("company_id", companyID), zap.Error(err))
		return BulkUploadResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return BulkUploadResponse{}, err
	}

	s.logger.Info("bulk upload saved", zap.String("company_id", companyID), zap.Int("created", len(emps)))

	out := make([]EmployeeResponse, 0, len(emps))
	for _, e := range emps {
		resp := mapToResponse(e)
		resp.BankName = banks[e.BankCode].Name
		out = append(out, resp)
	}
	return BulkUploadResponse{Created: len(emps), TotalAmount: total, Employees: out}, nil
}

func (s *service) checkRecord(ctx context.Context, fullName, code, account string, amount int64) (bankcode.Bank, error) {
	if err := s.registry.Validate(forms.PayrollEmployee, map[string]string{
		"full_name":      strings.TrimSpace(fullName),
		"bank_code":      code,
		"account_number": account,
		"amount":         payrollcalc.FromCents(amount).StringFixed(2),
	}); err != nil {
		return bankcode.Bank{}, err
	}

	banks, err := s.banks.Lookup(ctx, []string{code})
	if err != nil {
		return bankcode.Bank{}, err
	}
	bank, ok := banks[code]
	if !ok {
		return bankcode.Bank{}, payrollemployeeerrors.ErrUnknownBankCode
	}
	if !bank.AccountValid(account) {
		return bankcode.Bank{}, payrollemployeeerrors.ErrInvalidAccountNumber
	}
	return bank, nil
}

// parseAmount converts a KES amount to cents. It returns a message when the
// value is not a positive amount with at most two decimals.
func parseAmount(raw string) (int64, string) {
	if raw == "" {
		return 0, "Gross pay is required"
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, "Gross pay must be a number"
	}
	if !d.IsPositive() {
		return 0, "Gross pay must be greater than zero"
	}
	if !d.Equal(d.Round(2)) {
		return 0, "Gross pay must not have more than two decimals"
	}
	return payrollcalc.ToCents(d), ""
}

func rejection(rows []RowError) UploadRejection {
	msgs := make([]string, 0, len(rows))
	for _, row := range rows {
		keys := make([]string, 0, len(row.Fields))
		for k := range row.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msgs = append(msgs, fmt.Sprintf("Row %d: %s", row.Row, row.Fields[k]))
		}
	}
	return UploadRejection{Rows: rows, Errors: msgs}
}

func mapToResponse(e PayrollEmployee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID.String(),
		FullName:      e.FullName,
		BankCode:      e.BankCode,
		AccountNumber: e.AccountNumber,
		Amount:        e.Amount,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}
