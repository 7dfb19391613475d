package payrollcycle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"kazini-payroll/internal/events"
	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/payrollcalc"
	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/contextutil"
	"kazini-payroll/internal/shared/counter"
	"kazini-payroll/internal/wallet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

type EmployeeSource interface {
	FindActive(ctx context.Context, companyID string) ([]payrollemployee.PayrollEmployee, error)
}

type RateSource interface {
	CurrentRateSet(ctx context.Context) (payrollcalc.RateSet, error)
}

type ConfigSource interface {
	Get(ctx context.Context, companyID string) (payrollconfig.PayrollConfigResponse, error)
}

// WalletDebiter moves money out of the company wallet inside tx.
type WalletDebiter interface {
	Debit(ctx context.Context, tx *sql.Tx, params wallet.DebitParams) (wallet.TransactionResponse, error)
}

type Deps struct {
	DB        *sql.DB
	Repo      Repository
	Employees EmployeeSource
	Rates     RateSource
	Configs   ConfigSource
	Counters  counter.Repository
	Outbox    kafka.OutboxRepository
	Wallet    WalletDebiter
	Guard     InFlightGuard
}

type Options struct {
	DisburseTimeout time.Duration
	ReportDir       string
}

//go:generate mockgen -source=payrollcycle_service.go -destination=mock/payrollcycle_service_mock.go -package=mock
type Service interface {
	GetSummary(ctx context.Context, companyID string) (SummaryResponse, error)
	Process(ctx context.Context, companyID, actorID string, req ProcessRequest) (ProcessResponse, error)
	Disburse(ctx context.Context, companyID, actorID, cycleID string) (CycleResponse, error)

	List(ctx context.Context, companyID, status string) ([]CycleResponse, error)
	GetByID(ctx context.Context, companyID, cycleID string) (CycleResponse, error)
	GetItems(ctx context.Context, companyID, cycleID string) ([]ItemResponse, error)

	Report(ctx context.Context, companyID, cycleID, format string) (Report, error)
	GenerateReport(ctx context.Context, companyID, cycleID string) (string, error)
}

type service struct {
	Deps
	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

func NewService(deps Deps, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("payrollcycle.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payrollcycle.service")
	}
	if opts.DisburseTimeout <= 0 {
		opts.DisburseTimeout = 15 * time.Second
	}
	if opts.ReportDir == "" {
		opts.ReportDir = "var/reports"
	}
	return &service{Deps: deps, opts: opts, now: time.Now, logger: l}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return s.logger.With(zap.String("request_id", contextutil.GetRequestID(ctx)))
}

func (s *service) compute(ctx context.Context, companyID string) (Computation, error) {
	cfg, err := s.Configs.Get(ctx, companyID)
	if err != nil {
		return Computation{}, err
	}
	rates, err := s.Rates.CurrentRateSet(ctx)
	if err != nil {
		return Computation{}, err
	}
	employees, err := s.Employees.FindActive(ctx, companyID)
	if err != nil {
		return Computation{}, err
	}
	return Compute(employees, cfg, rates, s.now())
}

func (s *service) GetSummary(ctx context.Context, companyID string) (SummaryResponse, error) {
	comp, err := s.compute(ctx, companyID)
	if err != nil {
		return SummaryResponse{}, err
	}

	resp := SummaryResponse{
		Status:            StatusPending,
		EmployeeCount:     len(comp.Items),
		ServiceFeeRateBps: comp.FeeBps,
		TaxYear:           comp.TaxYear,
		RateSetVersion:    comp.RateSetVersion,
		Items:             make([]SummaryItem, 0, len(comp.Items)),
	}

	pending, err := s.Repo.FindPending(ctx, companyID)
	if err != nil && !errors.Is(mapRepositoryError(err), payrollcycleerrors.ErrCycleNotFound) {
		return SummaryResponse{}, err
	}
	if pending != nil {
		resp.CycleID = pending.ID.String()
	}

	if len(comp.Items) == 0 {
		resp.Notice = &Notice{
			Code:    NoticeNoEligibleEmployees,
			Message: NoticeNoEligibleEmployeesMessage,
		}
		return resp, nil
	}

	totals := comp.Totals
	resp.HasEligibleEmployees = true
	resp.Totals = &totals
	for _, item := range comp.Items {
		resp.Items = append(resp.Items, ToSummaryItem(item))
	}
	return resp, nil
}

func (s *service) Process(ctx context.Context, companyID, actorID string, req ProcessRequest) (ProcessResponse, error) {
	runDate := s.now().Truncate(24 * time.Hour)
	if req.RunDate != "" {
		parsed, err := time.Parse(time.DateOnly, req.RunDate)
		if err != nil {
			return ProcessResponse{}, payrollcycleerrors.ErrInvalidRunDate
		}
		runDate = parsed
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return ProcessResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.Repo.WithTx(tx)

	cycle, err := qtx.EnsurePending(ctx, companyID)
	if err != nil {
		return ProcessResponse{}, err
	}
	if err := checkTransition(cycle.Status, StatusProcessed); err != nil {
		return ProcessResponse{}, err
	}

	comp, err := s.compute(ctx, companyID)
	if err != nil {
		return ProcessResponse{}, err
	}
	if len(comp.Items) == 0 {
		return ProcessResponse{}, payrollcycleerrors.ErrNoEligibleEmployees
	}

	seq, err := s.Counters.WithTx(tx).GetNextValue(ctx, companyID, counter.TypePayrollCycle)
	if err != nil {
		return ProcessResponse{}, err
	}

	now := s.now()
	cycle.CycleCount = &seq
	cycle.RunDate = &runDate
	cycle.Status = StatusProcessed
	cycle.ApplyTotals(comp)
	cycle.ProcessedBy = &actorID
	cycle.ProcessedAt = &now
	if err := qtx.UpdateCycle(ctx, cycle); err != nil {
		return ProcessResponse{}, err
	}

	for i := range comp.Items {
		comp.Items[i].CycleID = cycle.ID
	}
	if err := qtx.CreateItems(ctx, comp.Items); err != nil {
		return ProcessResponse{}, err
	}

	next := &PayrollCycle{ID: uuid.New(), CompanyID: cycle.CompanyID, Status: StatusPending, CreatedAt: now}
	if err := qtx.CreateCycle(ctx, next); err != nil {
		return ProcessResponse{}, err
	}

	ev, err := kafka.NewOutboxEvent(ctx, "payroll_cycle", cycle.ID.String(), events.PayrollCycleProcessed, events.PayrollCycleTopic,
		events.PayrollCycleProcessedEvent{
			EventType:      events.PayrollCycleProcessed,
			CycleID:        cycle.ID.String(),
			CompanyID:      companyID,
			CycleCount:     seq,
			EmployeeCount:  cycle.EmployeeCount,
			TotalNetPay:    cycle.TotalNetPay,
			TotalAmountDue: cycle.TotalDisbursementAmount,
			ProcessedBy:    actorID,
			OccurredAt:     now,
		})
	if err != nil {
		return ProcessResponse{}, err
	}
	if err := s.Outbox.WithTx(tx).Create(ctx, ev); err != nil {
		return ProcessResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ProcessResponse{}, err
	}

	s.log(ctx).Info("payroll cycle processed",
		zap.String("company_id", companyID),
		zap.String("cycle_id", cycle.ID.String()),
		zap.Int64("cycle_count", seq),
		zap.Int("employee_count", cycle.EmployeeCount),
		zap.Int64("total_disbursement_amount", cycle.TotalDisbursementAmount),
	)
	return ProcessResponse{Cycle: ToCycleResponse(*cycle), NextCycle: ToCycleResponse(*next)}, nil
}

// Disburse pays out a processed cycle. A failure of any kind leaves the cycle
// PROCESSED; a timeout is reported as an unknown outcome because the commit
// may still have landed.
func (s *service) Disburse(ctx context.Context, companyID, actorID, cycleID string) (CycleResponse, error) {
	release, err := s.Guard.Acquire(ctx, disburseLockKey(cycleID))
	if err != nil {
		return CycleResponse{}, err
	}
	defer release()

	dctx, cancel := context.WithTimeout(ctx, s.opts.DisburseTimeout)
	defer cancel()

	resp, err := s.disburse(dctx, companyID, actorID, cycleID)
	if err != nil {
		if errors.Is(dctx.Err(), context.DeadlineExceeded) {
			s.log(ctx).Error("disbursement timed out",
				zap.String("company_id", companyID),
				zap.String("cycle_id", cycleID),
				zap.Duration("timeout", s.opts.DisburseTimeout),
				zap.Error(err),
			)
			return CycleResponse{}, payrollcycleerrors.ErrDisbursementOutcomeUnknown
		}
		return CycleResponse{}, err
	}

	s.log(ctx).Info("payroll cycle disbursed",
		zap.String("company_id", companyID),
		zap.String("cycle_id", cycleID),
		zap.Int64("total_disbursement_amount", resp.TotalDisbursementAmount),
		zap.String("disbursed_by", actorID),
	)
	return resp, nil
}

func (s *service) disburse(ctx context.Context, companyID, actorID, cycleID string) (CycleResponse, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return CycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.Repo.WithTx(tx)

	cycle, err := qtx.LockByID(ctx, companyID, cycleID)
	if err != nil {
		return CycleResponse{}, mapRepositoryError(err)
	}
	switch cycle.Status {
	case StatusCompleted:
		return CycleResponse{}, payrollcycleerrors.ErrCycleAlreadyDisbursed
	case StatusPending:
		return CycleResponse{}, payrollcycleerrors.ErrCycleNotProcessed
	}
	if err := checkTransition(cycle.Status, StatusCompleted); err != nil {
		return CycleResponse{}, err
	}

	count := int64(0)
	if cycle.CycleCount != nil {
		count = *cycle.CycleCount
	}

	debit, err := s.Wallet.Debit(ctx, tx, wallet.DebitParams{
		CompanyID:   companyID,
		Amount:      cycle.TotalDisbursementAmount,
		Reference:   "PAYROLL-" + cycle.ID.String(),
		Description: fmt.Sprintf("Payroll cycle #%d disbursement", count),
		ActorID:     actorID,
	})
	if err != nil {
		return CycleResponse{}, err
	}

	now := s.now()
	txID, err := uuid.Parse(debit.ID)
	if err == nil {
		cycle.WalletTransactionID = &txID
	}
	cycle.Status = StatusCompleted
	cycle.DisbursedBy = &actorID
	cycle.DisbursedAt = &now
	if err := qtx.UpdateCycle(ctx, cycle); err != nil {
		return CycleResponse{}, err
	}

	ev, err := kafka.NewOutboxEvent(ctx, "payroll_cycle", cycle.ID.String(), events.PayrollCycleDisbursed, events.PayrollCycleTopic,
		events.PayrollCycleDisbursedEvent{
			EventType:      events.PayrollCycleDisbursed,
			CycleID:        cycle.ID.String(),
			CompanyID:      companyID,
			CycleCount:     count,
			TotalAmountDue: cycle.TotalDisbursementAmount,
			DisbursedBy:    actorID,
			OccurredAt:     now,
		})
	if err != nil {
		return CycleResponse{}, err
	}
	if err := s.Outbox.WithTx(tx).Create(ctx, ev); err != nil {
		return CycleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.log(ctx).Error("disbursement commit failed",
			zap.String("cycle_id", cycleID),
			zap.Error(err),
		)
		return CycleResponse{}, payrollcycleerrors.ErrDisbursementOutcomeUnknown
	}
	return ToCycleResponse(*cycle), nil
}

func (s *service) List(ctx context.Context, companyID, status string) ([]CycleResponse, error) {
	cycles, err := s.Repo.FindAll(ctx, companyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]CycleResponse, 0, len(cycles))
	for _, c := range cycles {
		out = append(out, ToCycleResponse(c))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, companyID, cycleID string) (CycleResponse, error) {
	cycle, err := s.Repo.FindByID(ctx, companyID, cycleID)
	if err != nil {
		return CycleResponse{}, mapRepositoryError(err)
	}
	return ToCycleResponse(*cycle), nil
}

func (s *service) GetItems(ctx context.Context, companyID, cycleID string) ([]ItemResponse, error) {
	if _, err := s.Repo.FindByID(ctx, companyID, cycleID); err != nil {
		return nil, mapRepositoryError(err)
	}
	items, err := s.Repo.FindItems(ctx, companyID, cycleID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, ToItemResponse(i))
	}
	return out, nil
}

func (s *service) loadReportData(ctx context.Context, companyID, cycleID string) (*PayrollCycle, []PayrollCycleItem, error) {
	cycle, err := s.Repo.FindByID(ctx, companyID, cycleID)
	if err != nil {
		return nil, nil, mapRepositoryError(err)
	}
	if cycle.Status == StatusPending {
		return nil, nil, payrollcycleerrors.ErrCycleNotProcessed
	}
	items, err := s.Repo.FindItems(ctx, companyID, cycleID)
	if err != nil {
		return nil, nil, err
	}
	return cycle, items, nil
}

func (s *service) Report(ctx context.Context, companyID, cycleID, format string) (Report, error) {
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatPDF {
		return Report{}, payrollcycleerrors.ErrUnsupportedReportFormat
	}

	cycle, items, err := s.loadReportData(ctx, companyID, cycleID)
	if err != nil {
		return Report{}, err
	}
	return RenderReport(*cycle, items, format)
}

// GenerateReport writes the XLSX report of a cycle under the report directory
// and records its location on the cycle.
func (s *service) GenerateReport(ctx context.Context, companyID, cycleID string) (string, error) {
	cycle, items, err := s.loadReportData(ctx, companyID, cycleID)
	if err != nil {
		return "", err
	}

	rep, err := RenderReport(*cycle, items, FormatXLSX)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(s.opts.ReportDir, companyID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, rep.Filename)
	if err := os.WriteFile(path, rep.Body, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	url := filepath.ToSlash(path)
	if err := s.Repo.SetReportURL(ctx, companyID, cycleID, url); err != nil {
		return "", err
	}
	return url, nil
}
