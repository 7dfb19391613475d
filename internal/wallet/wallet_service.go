package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kazini-payroll/internal/events"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/messaging/kafka"
	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/contextutil"
	"kazini-payroll/internal/shared/counter"
	walleterrors "kazini-payroll/internal/wallet/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DebitParams describes one outgoing movement. Reference must be unique per
// business event so a retried caller cannot debit twice.
type DebitParams struct {
	CompanyID   string
	Amount      int64
	Reference   string
	Description string
	ActorID     string
}

//go:generate mockgen -source=wallet_service.go -destination=mock/wallet_service_mock.go -package=mock
type Service interface {
	CreateWallet(ctx context.Context, tx *sql.Tx, companyID string) (WalletResponse, error)
	GetWallet(ctx context.Context, companyID string) (WalletResponse, error)
	ListTransactions(ctx context.Context, companyID string) ([]TransactionResponse, error)

	CreateFundingRequest(ctx context.Context, companyID, actorID string, req CreateFundingRequest) (FundingRequestResponse, error)
	ListFundingRequests(ctx context.Context, companyID, status string) ([]FundingRequestResponse, error)
	GetFundingRequest(ctx context.Context, companyID, id string) (FundingRequestResponse, error)
	SubmitBankTransferProof(ctx context.Context, companyID, id string, req BankTransferProofRequest) (FundingRequestResponse, error)
	SubmitMpesaProof(ctx context.Context, companyID, id string, req MpesaProofRequest) (FundingRequestResponse, error)

	Verify(ctx context.Context, companyID, verifierID, id string, req VerifyFundingRequest) (FundingRequestResponse, error)
	Reject(ctx context.Context, companyID, verifierID, id string, req RejectFundingRequest) (FundingRequestResponse, error)
	BulkVerify(ctx context.Context, companyID, verifierID string, ids []string) (BulkVerifyResponse, error)

	Debit(ctx context.Context, tx *sql.Tx, params DebitParams) (TransactionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counters counter.Repository
	outbox   kafka.OutboxRepository
	registry *forms.Registry
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counters counter.Repository,
	outbox kafka.OutboxRepository,
	registry *forms.Registry,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("wallet.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("wallet.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		counters: counters,
		outbox:   outbox,
		registry: registry,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return s.logger.With(zap.String("request_id", contextutil.GetRequestID(ctx)))
}

// CreateWallet opens the company's wallet inside the caller's transaction.
func (s *service) CreateWallet(ctx context.Context, tx *sql.Tx, companyID string) (WalletResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return WalletResponse{}, apperror.InvalidField("company_id")
	}
	w := &Wallet{ID: uuid.New(), CompanyID: companyUUID, Currency: DefaultCurrency}
	if err := s.repo.WithTx(tx).CreateWallet(ctx, w); err != nil {
		return WalletResponse{}, err
	}
	return mapWallet(*w), nil
}

func (s *service) GetWallet(ctx context.Context, companyID string) (WalletResponse, error) {
	w, err := s.repo.FindWallet(ctx, companyID)
	if err != nil {
		return WalletResponse{}, mapWalletError(err)
	}
	return mapWallet(*w), nil
}

func (s *service) ListTransactions(ctx context.Context, companyID string) ([]TransactionResponse, error) {
	txs, err := s.repo.FindTransactions(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, mapTransaction(t))
	}
	return out, nil
}

func (s *service) CreateFundingRequest(ctx context.Context, companyID, actorID string, req CreateFundingRequest) (FundingRequestResponse, error) {
	if err := s.registry.Validate(forms.WalletFunding, map[string]string{
		"payment_method": req.PaymentMethod,
		"amount":         payrollcalc.FromCents(req.Amount).StringFixed(2),
	}); err != nil {
		return FundingRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FundingRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	w, err := qtx.FindWallet(ctx, companyID)
	if err != nil {
		return FundingRequestResponse{}, mapWalletError(err)
	}

	seq, err := s.counters.WithTx(tx).GetNextValue(ctx, companyID, counter.TypeWalletFunding)
	if err != nil {
		return FundingRequestResponse{}, err
	}

	fr := &WalletFundingRequest{
		ID:            uuid.New(),
		CompanyID:     w.CompanyID,
		WalletID:      w.ID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     FundingReference(companyID, seq),
		Status:        FundingPending,
	}
	if actorID != "" {
		fr.CreatedBy = &actorID
	}

	if err := qtx.CreateFundingRequest(ctx, fr); err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}

	if err := tx.Commit(); err != nil {
		return FundingRequestResponse{}, err
	}

	s.log(ctx).Info("funding request created",
		zap.String("company_id", companyID),
		zap.String("reference", fr.Reference),
		zap.Int64("amount", fr.Amount),
		zap.String("payment_method", fr.PaymentMethod),
	)
	return mapFundingRequest(*fr), nil
}

func (s *service) ListFundingRequests(ctx context.Context, companyID, status string) ([]FundingRequestResponse, error) {
	frs, err := s.repo.FindFundingRequests(ctx, companyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]FundingRequestResponse, 0, len(frs))
	for _, fr := range frs {
		out = append(out, mapFundingRequest(fr))
	}
	return out, nil
}

func (s *service) GetFundingRequest(ctx context.Context, companyID, id string) (FundingRequestResponse, error) {
	fr, err := s.repo.FindFundingRequest(ctx, companyID, id)
	if err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	return mapFundingRequest(*fr), nil
}

func (s *service) SubmitBankTransferProof(ctx context.Context, companyID, id string, req BankTransferProofRequest) (FundingRequestResponse, error) {
	if err := s.registry.Validate(forms.BankTransferProof, map[string]string{
		"bank_reference": req.BankReference,
		"amount":         payrollcalc.FromCents(req.Amount).StringFixed(2),
		"transfer_date":  req.TransferDate,
	}); err != nil {
		return FundingRequestResponse{}, err
	}

	var transferDate *time.Time
	if req.TransferDate != "" {
		d, err := time.Parse(time.DateOnly, req.TransferDate)
		if err != nil {
			return FundingRequestResponse{}, walleterrors.ErrInvalidTransferDate
		}
		transferDate = &d
	}

	return s.submitProof(ctx, companyID, id, MethodBankTransfer, func(fr *WalletFundingRequest) {
		ref := normalizeReference(req.BankReference)
		amount := req.Amount
		fr.BankReference = &ref
		fr.ProofAmount = &amount
		fr.TransferDate = transferDate
	})
}

func (s *service) SubmitMpesaProof(ctx context.Context, companyID, id string, req MpesaProofRequest) (FundingRequestResponse, error) {
	code := normalizeReference(req.TransactionCode)
	if err := s.registry.Validate(forms.MpesaProof, map[string]string{"transaction_code": code}); err != nil {
		return FundingRequestResponse{}, err
	}

	used, err := s.repo.MpesaCodeUsed(ctx, code, "")
	if err != nil {
		return FundingRequestResponse{}, err
	}
	if used {
		return FundingRequestResponse{}, walleterrors.ErrTransactionCodeUsed
	}

	return s.submitProof(ctx, companyID, id, MethodMpesa, func(fr *WalletFundingRequest) {
		fr.MpesaTransactionCode = &code
	})
}

// submitProof moves a pending request to pending_approval. Proof is recorded
// once; corrections go through Reject and a new request.
func (s *service) submitProof(ctx context.Context, companyID, id, method string, apply func(*WalletFundingRequest)) (FundingRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FundingRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	fr, err := qtx.LockFundingRequest(ctx, companyID, id)
	if err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	if fr.PaymentMethod != method {
		return FundingRequestResponse{}, walleterrors.ErrWrongPaymentMethod
	}
	if fr.Status != FundingPending {
		return FundingRequestResponse{}, walleterrors.ErrProofAlreadySubmitted.WithDetails(map[string]string{"status": fr.Status})
	}

	apply(fr)
	now := s.now()
	fr.ProofSubmittedAt = &now
	fr.Status = FundingPendingApproval

	if err := qtx.UpdateFundingRequest(ctx, fr); err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	if err := tx.Commit(); err != nil {
		return FundingRequestResponse{}, err
	}

	s.log(ctx).Info("funding proof submitted",
		zap.String("company_id", companyID),
		zap.String("funding_request_id", id),
		zap.String("payment_method", method),
	)
	return mapFundingRequest(*fr), nil
}

// Verify credits the wallet once the verifier confirms the statement matches
// the request. Every rejection names its reason and leaves the request
// untouched so it can be verified again with corrected statement data.
func (s *service) Verify(ctx context.Context, companyID, verifierID, id string, req VerifyFundingRequest) (FundingRequestResponse, error) {
	statementRef := normalizeReference(req.StatementReference)
	if err := s.registry.Validate(forms.FundingVerification, map[string]string{
		"statement_reference": statementRef,
		"statement_amount":    payrollcalc.FromCents(req.StatementAmount).StringFixed(2),
	}); err != nil {
		return FundingRequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FundingRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	fr, err := qtx.LockFundingRequest(ctx, companyID, id)
	if err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	if err := checkStatement(fr, statementRef, req.StatementAmount); err != nil {
		s.log(ctx).Info("funding verification rejected",
			zap.String("funding_request_id", id),
			zap.Error(err),
		)
		return FundingRequestResponse{}, err
	}

	if err := s.credit(ctx, tx, qtx, fr, verifierID, statementRef); err != nil {
		return FundingRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return FundingRequestResponse{}, err
	}

	s.log(ctx).Info("funding request verified",
		zap.String("company_id", companyID),
		zap.String("funding_request_id", id),
		zap.Int64("amount", fr.Amount),
		zap.String("verified_by", verifierID),
	)
	return mapFundingRequest(*fr), nil
}

func (s *service) Reject(ctx context.Context, companyID, verifierID, id string, req RejectFundingRequest) (FundingRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return FundingRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	fr, err := qtx.LockFundingRequest(ctx, companyID, id)
	if err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	if fr.Status != FundingPending && fr.Status != FundingPendingApproval {
		return FundingRequestResponse{}, walleterrors.ErrNotAwaitingVerification.WithDetails(map[string]string{"status": fr.Status})
	}

	now := s.now()
	reason := strings.TrimSpace(req.Reason)
	fr.Status = FundingFailed
	fr.FailureReason = &reason
	fr.VerifiedBy = &verifierID
	fr.VerifiedAt = &now

	if err := qtx.UpdateFundingRequest(ctx, fr); err != nil {
		return FundingRequestResponse{}, mapFundingError(err)
	}
	if err := tx.Commit(); err != nil {
		return FundingRequestResponse{}, err
	}

	s.log(ctx).Info("funding request rejected",
		zap.String("company_id", companyID),
		zap.String("funding_request_id", id),
		zap.String("reason", reason),
	)
	return mapFundingRequest(*fr), nil
}

// BulkVerify approves each request against its own recorded proof. The
// credited amount is always the stored request amount; ids are handled in
// separate transactions so one failure does not block the rest.
func (s *service) BulkVerify(ctx context.Context, companyID, verifierID string, ids []string) (BulkVerifyResponse, error) {
	resp := BulkVerifyResponse{Results: make([]BulkVerifyResult, 0, len(ids))}

	for _, id := range ids {
		err := s.verifyStored(ctx, companyID, verifierID, id)
		if err == nil {
			resp.Verified++
			resp.Results = append(resp.Results, BulkVerifyResult{ID: id, Status: FundingCompleted})
			continue
		}

		httpErr := apperror.ToHTTP(err)
		resp.Failed++
		resp.Results = append(resp.Results, BulkVerifyResult{
			ID:      id,
			Status:  "error",
			Code:    httpErr.Code,
			Message: httpErr.Message,
		})
	}

	s.log(ctx).Info("bulk verification finished",
		zap.String("company_id", companyID),
		zap.Int("verified", resp.Verified),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

func (s *service) verifyStored(ctx context.Context, companyID, verifierID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	fr, err := qtx.LockFundingRequest(ctx, companyID, id)
	if err != nil {
		return mapFundingError(err)
	}

	statementRef, statementAmount := storedProof(fr)
	if err := checkStatement(fr, statementRef, statementAmount); err != nil {
		return err
	}

	if err := s.credit(ctx, tx, qtx, fr, verifierID, statementRef); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) credit(ctx context.Context, tx *sql.Tx, qtx Repository, fr *WalletFundingRequest, verifierID, statementRef string) error {
	companyID := fr.CompanyID.String()

	if fr.PaymentMethod == MethodMpesa {
		used, err := qtx.MpesaCodeUsed(ctx, *fr.MpesaTransactionCode, fr.ID.String())
		if err != nil {
			return err
		}
		if used {
			return walleterrors.ErrTransactionCodeUsed
		}
	}

	w, err := qtx.LockWallet(ctx, companyID)
	if err != nil {
		return mapWalletError(err)
	}

	balance := w.Balance + fr.Amount
	if err := qtx.UpdateBalance(ctx, w.ID.String(), balance); err != nil {
		return err
	}

	entry := &WalletTransaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		CompanyID:    w.CompanyID,
		Direction:    DirectionCredit,
		Type:         TxTypeFunding,
		Amount:       fr.Amount,
		BalanceAfter: balance,
		Reference:    fr.Reference,
		Description:  fmt.Sprintf("Wallet funding via %s", fr.PaymentMethod),
		CreatedBy:    &verifierID,
	}
	if err := qtx.CreateTransaction(ctx, entry); err != nil {
		return mapConstraintError(err)
	}

	now := s.now()
	fr.Status = FundingCompleted
	fr.StatementReference = &statementRef
	fr.VerifiedBy = &verifierID
	fr.VerifiedAt = &now
	if err := qtx.UpdateFundingRequest(ctx, fr); err != nil {
		return mapFundingError(err)
	}

	ev, err := kafka.NewOutboxEvent(ctx, "wallet_funding_request", fr.ID.String(), events.WalletFundingCompleted, events.WalletFundingTopic,
		events.WalletFundingCompletedEvent{
			EventType:  events.WalletFundingCompleted,
			RequestID:  fr.ID.String(),
			CompanyID:  companyID,
			WalletID:   w.ID.String(),
			Reference:  fr.Reference,
			Amount:     fr.Amount,
			VerifiedBy: verifierID,
			OccurredAt: now,
		})
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

// Debit runs inside the caller's transaction and locks the wallet row until
// that transaction ends.
func (s *service) Debit(ctx context.Context, tx *sql.Tx, params DebitParams) (TransactionResponse, error) {
	if params.Amount <= 0 {
		return TransactionResponse{}, apperror.InvalidField("amount")
	}

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.TransactionExists(ctx, params.Reference)
	if err != nil {
		return TransactionResponse{}, err
	}
	if exists {
		return TransactionResponse{}, walleterrors.ErrDuplicateTransaction
	}

	w, err := qtx.LockWallet(ctx, params.CompanyID)
	if err != nil {
		return TransactionResponse{}, mapWalletError(err)
	}
	if w.Balance < params.Amount {
		return TransactionResponse{}, walleterrors.ErrInsufficientFunds.WithDetails(map[string]int64{
			"required":  params.Amount,
			"available": w.Balance,
			"shortfall": params.Amount - w.Balance,
		})
	}

	balance := w.Balance - params.Amount
	if err := qtx.UpdateBalance(ctx, w.ID.String(), balance); err != nil {
		return TransactionResponse{}, err
	}

	entry := &WalletTransaction{
		ID:           uuid.New(),
		WalletID:     w.ID,
		CompanyID:    w.CompanyID,
		Direction:    DirectionDebit,
		Type:         TxTypeDisbursement,
		Amount:       params.Amount,
		BalanceAfter: balance,
		Reference:    params.Reference,
		Description:  params.Description,
		CreatedAt:    s.now(),
	}
	if params.ActorID != "" {
		entry.CreatedBy = &params.ActorID
	}
	if err := qtx.CreateTransaction(ctx, entry); err != nil {
		return TransactionResponse{}, mapConstraintError(err)
	}

	return mapTransaction(*entry), nil
}

// FundingReference is the narration payers quote on their transfer.
func FundingReference(companyID string, seq int64) string {
	prefix := strings.ToUpper(strings.ReplaceAll(companyID, "-", ""))
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "KZF-" + prefix + "-" + fmt.Sprintf("%06d", seq)
}

func checkStatement(fr *WalletFundingRequest, statementRef string, statementAmount int64) error {
	if fr.Status != FundingPendingApproval {
		return walleterrors.ErrNotAwaitingVerification.WithDetails(map[string]string{"status": fr.Status})
	}

	if !referenceMatches(fr, statementRef) {
		return walleterrors.ErrUnknownReference.WithDetails(map[string]string{
			"statement_reference": statementRef,
			"expected_reference":  fr.Reference,
		})
	}

	if statementAmount != fr.Amount {
		return walleterrors.ErrAmountMismatch.WithDetails(map[string]string{
			"expected_amount":  strconv.FormatInt(fr.Amount, 10),
			"statement_amount": strconv.FormatInt(statementAmount, 10),
		})
	}
	return nil
}

func referenceMatches(fr *WalletFundingRequest, statementRef string) bool {
	switch fr.PaymentMethod {
	case MethodMpesa:
		return fr.MpesaTransactionCode != nil && *fr.MpesaTransactionCode == statementRef
	default:
		if statementRef == fr.Reference {
			return true
		}
		return fr.BankReference != nil && *fr.BankReference == statementRef
	}
}

// storedProof is what the payer submitted, used when no statement is keyed in.
func storedProof(fr *WalletFundingRequest) (string, int64) {
	switch fr.PaymentMethod {
	case MethodMpesa:
		if fr.MpesaTransactionCode == nil {
			return "", fr.Amount
		}
		return *fr.MpesaTransactionCode, fr.Amount
	default:
		amount := fr.Amount
		if fr.ProofAmount != nil {
			amount = *fr.ProofAmount
		}
		return fr.Reference, amount
	}
}

func normalizeReference(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
