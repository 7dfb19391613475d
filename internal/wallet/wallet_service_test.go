package wallet_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"kazini-payroll/internal/events"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/messaging/kafka"
	kafkamock "kazini-payroll/internal/messaging/kafka/mock"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/counter"
	countermock "kazini-payroll/internal/shared/counter/mock"
	"kazini-payroll/internal/wallet"
	walleterrors "kazini-payroll/internal/wallet/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// memRepo keeps wallet state in maps so tests can assert balances after a flow.
type memRepo struct {
	wallets  map[string]*wallet.Wallet
	requests map[string]*wallet.WalletFundingRequest
	txs      []wallet.WalletTransaction
}

func newMemRepo() *memRepo {
	return &memRepo{
		wallets:  map[string]*wallet.Wallet{},
		requests: map[string]*wallet.WalletFundingRequest{},
	}
}

func (m *memRepo) WithTx(tx *sql.Tx) wallet.Repository { return m }

func (m *memRepo) CreateWallet(ctx context.Context, w *wallet.Wallet) error {
	m.wallets[w.CompanyID.String()] = w
	return nil
}

func (m *memRepo) FindWallet(ctx context.Context, companyID string) (*wallet.Wallet, error) {
	w, ok := m.wallets[companyID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memRepo) LockWallet(ctx context.Context, companyID string) (*wallet.Wallet, error) {
	return m.FindWallet(ctx, companyID)
}

func (m *memRepo) UpdateBalance(ctx context.Context, walletID string, balance int64) error {
	for _, w := range m.wallets {
		if w.ID.String() == walletID {
			w.Balance = balance
		}
	}
	return nil
}

func (m *memRepo) CreateTransaction(ctx context.Context, t *wallet.WalletTransaction) error {
	m.txs = append(m.txs, *t)
	return nil
}

func (m *memRepo) TransactionExists(ctx context.Context, reference string) (bool, error) {
	for _, t := range m.txs {
		if t.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) FindTransactions(ctx context.Context, companyID string) ([]wallet.WalletTransaction, error) {
	return m.txs, nil
}

func (m *memRepo) CreateFundingRequest(ctx context.Context, fr *wallet.WalletFundingRequest) error {
	m.requests[fr.ID.String()] = fr
	return nil
}

func (m *memRepo) FindFundingRequest(ctx context.Context, companyID, id string) (*wallet.WalletFundingRequest, error) {
	fr, ok := m.requests[id]
	if !ok || fr.CompanyID.String() != companyID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *fr
	return &cp, nil
}

func (m *memRepo) LockFundingRequest(ctx context.Context, companyID, id string) (*wallet.WalletFundingRequest, error) {
	return m.FindFundingRequest(ctx, companyID, id)
}

func (m *memRepo) FindFundingRequests(ctx context.Context, companyID, status string) ([]wallet.WalletFundingRequest, error) {
	var out []wallet.WalletFundingRequest
	for _, fr := range m.requests {
		if status == "" || fr.Status == status {
			out = append(out, *fr)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateFundingRequest(ctx context.Context, fr *wallet.WalletFundingRequest) error {
	cp := *fr
	m.requests[fr.ID.String()] = &cp
	return nil
}

func (m *memRepo) MpesaCodeUsed(ctx context.Context, code, excludeID string) (bool, error) {
	for id, fr := range m.requests {
		if id != excludeID && fr.Status == wallet.FundingCompleted && fr.MpesaTransactionCode != nil && *fr.MpesaTransactionCode == code {
			return true, nil
		}
	}
	return false, nil
}

type serviceDeps struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	repo     *memRepo
	outbox   *kafkamock.MockOutboxRepository
	counters *countermock.MockRepository
	svc      wallet.Service

	companyID string
	wallet    *wallet.Wallet
}

func setupServiceTest(t *testing.T, balance int64) *serviceDeps {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	outbox := kafkamock.NewMockOutboxRepository(ctrl)
	counters := countermock.NewMockRepository(ctrl)
	repo := newMemRepo()

	companyID := uuid.New()
	w := &wallet.Wallet{ID: uuid.New(), CompanyID: companyID, Balance: balance, Currency: wallet.DefaultCurrency}
	repo.wallets[companyID.String()] = w

	return &serviceDeps{
		db:        db,
		mock:      mock,
		repo:      repo,
		outbox:    outbox,
		counters:  counters,
		svc:       wallet.NewService(db, repo, counters, outbox, forms.MustRegistry()),
		companyID: companyID.String(),
		wallet:    w,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func (d *serviceDeps) addRequest(method, status string, amount int64) *wallet.WalletFundingRequest {
	fr := &wallet.WalletFundingRequest{
		ID:            uuid.New(),
		CompanyID:     d.wallet.CompanyID,
		WalletID:      d.wallet.ID,
		Amount:        amount,
		PaymentMethod: method,
		Reference:     wallet.FundingReference(d.companyID, int64(len(d.repo.requests)+1)),
		Status:        status,
	}
	d.repo.requests[fr.ID.String()] = fr
	return fr
}

func (d *serviceDeps) expectOutboxEvent(t *testing.T, eventType string) {
	t.Helper()
	d.outbox.EXPECT().WithTx(gomock.Any()).Return(d.outbox)
	d.outbox.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, ev kafka.OutboxEvent) error {
		assert.Equal(t, eventType, ev.EventType)
		assert.Equal(t, events.WalletFundingTopic, ev.Topic)
		return nil
	})
}

func TestFundingReference(t *testing.T) {
	ref := wallet.FundingReference("1a2b3c4d-0000-0000-0000-000000000000", 42)
	assert.Equal(t, "KZF-1A2B3C4D-000042", ref)
}

func TestWalletService_CreateFundingRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("success uses the company counter for the reference", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		expectTx(t, d.mock, true)
		d.counters.EXPECT().WithTx(gomock.Any()).Return(d.counters)
		d.counters.EXPECT().GetNextValue(gomock.Any(), d.companyID, counter.TypeWalletFunding).Return(int64(7), nil)

		resp, err := d.svc.CreateFundingRequest(ctx, d.companyID, uuid.NewString(), wallet.CreateFundingRequest{
			Amount: 50000000, PaymentMethod: wallet.MethodBankTransfer,
		})

		assert.NoError(t, err)
		assert.Equal(t, wallet.FundingPending, resp.Status)
		assert.Equal(t, wallet.FundingReference(d.companyID, 7), resp.Reference)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("mpesa above the per-transaction limit", func(t *testing.T) {
		d := setupServiceTest(t, 0)

		_, err := d.svc.CreateFundingRequest(ctx, d.companyID, "", wallet.CreateFundingRequest{
			Amount: 30000000, PaymentMethod: wallet.MethodMpesa,
		})

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestWalletService_SubmitProof(t *testing.T) {
	ctx := context.Background()

	t.Run("bank transfer proof moves request to pending approval", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPending, 100000)
		expectTx(t, d.mock, true)

		resp, err := d.svc.SubmitBankTransferProof(ctx, d.companyID, fr.ID.String(), wallet.BankTransferProofRequest{
			BankReference: "ft24123abc", Amount: 100000, TransferDate: "2025-01-30",
		})

		assert.NoError(t, err)
		assert.Equal(t, wallet.FundingPendingApproval, resp.Status)
		assert.Equal(t, "FT24123ABC", *resp.BankReference)
		assert.Equal(t, "2025-01-30", *resp.TransferDate)
	})

	t.Run("mpesa proof on a bank transfer request", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPending, 100000)
		expectTx(t, d.mock, false)

		_, err := d.svc.SubmitMpesaProof(ctx, d.companyID, fr.ID.String(), wallet.MpesaProofRequest{TransactionCode: "QHX1234567"})

		assert.ErrorIs(t, err, walleterrors.ErrWrongPaymentMethod)
	})

	t.Run("mpesa code already credited elsewhere", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		used := d.addRequest(wallet.MethodMpesa, wallet.FundingCompleted, 100000)
		code := "QHX1234567"
		used.MpesaTransactionCode = &code
		fr := d.addRequest(wallet.MethodMpesa, wallet.FundingPending, 100000)

		_, err := d.svc.SubmitMpesaProof(ctx, d.companyID, fr.ID.String(), wallet.MpesaProofRequest{TransactionCode: "qhx1234567"})

		assert.ErrorIs(t, err, walleterrors.ErrTransactionCodeUsed)
	})

	t.Run("second proof is refused", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := d.addRequest(wallet.MethodMpesa, wallet.FundingPendingApproval, 100000)
		expectTx(t, d.mock, false)

		_, err := d.svc.SubmitMpesaProof(ctx, d.companyID, fr.ID.String(), wallet.MpesaProofRequest{TransactionCode: "QHX1234567"})

		assert.ErrorIs(t, err, walleterrors.ErrProofAlreadySubmitted)
	})
}

func TestWalletService_Verify(t *testing.T) {
	ctx := context.Background()
	verifier := uuid.NewString()

	bankRequest := func(d *serviceDeps) *wallet.WalletFundingRequest {
		fr := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPendingApproval, 250000)
		ref := "FT24123ABC"
		amount := int64(250000)
		fr.BankReference = &ref
		fr.ProofAmount = &amount
		return fr
	}

	t.Run("matching statement credits the wallet once", func(t *testing.T) {
		d := setupServiceTest(t, 1000)
		fr := bankRequest(d)
		expectTx(t, d.mock, true)
		d.expectOutboxEvent(t, events.WalletFundingCompleted)

		resp, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: fr.Reference, StatementAmount: 250000,
		})

		assert.NoError(t, err)
		assert.Equal(t, wallet.FundingCompleted, resp.Status)
		assert.Equal(t, int64(251000), d.wallet.Balance)
		assert.Len(t, d.repo.txs, 1)
		assert.Equal(t, wallet.DirectionCredit, d.repo.txs[0].Direction)
		assert.Equal(t, fr.Reference, d.repo.txs[0].Reference)
		assert.NoError(t, d.mock.ExpectationsWereMet())
	})

	t.Run("payer bank reference is accepted", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := bankRequest(d)
		expectTx(t, d.mock, true)
		d.expectOutboxEvent(t, events.WalletFundingCompleted)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: "ft24123abc", StatementAmount: 250000,
		})

		assert.NoError(t, err)
	})

	t.Run("unknown reference", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := bankRequest(d)
		expectTx(t, d.mock, false)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: "SOMETHING-ELSE", StatementAmount: 250000,
		})

		assert.ErrorIs(t, err, walleterrors.ErrUnknownReference)
		assert.Equal(t, int64(0), d.wallet.Balance)
		assert.Equal(t, wallet.FundingPendingApproval, d.repo.requests[fr.ID.String()].Status)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := bankRequest(d)
		expectTx(t, d.mock, false)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: fr.Reference, StatementAmount: 200000,
		})

		assert.ErrorIs(t, err, walleterrors.ErrAmountMismatch)
		assert.Equal(t, apperror.CodeAmountMismatch, apperror.ToHTTP(err).Code)
	})

	t.Run("already completed", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		fr := d.addRequest(wallet.MethodBankTransfer, wallet.FundingCompleted, 250000)
		expectTx(t, d.mock, false)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: fr.Reference, StatementAmount: 250000,
		})

		assert.ErrorIs(t, err, walleterrors.ErrNotAwaitingVerification)
	})

	t.Run("mpesa code consumed by another request", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		code := "QHX1234567"
		used := d.addRequest(wallet.MethodMpesa, wallet.FundingCompleted, 250000)
		used.MpesaTransactionCode = &code
		fr := d.addRequest(wallet.MethodMpesa, wallet.FundingPendingApproval, 250000)
		codeCopy := code
		fr.MpesaTransactionCode = &codeCopy
		expectTx(t, d.mock, false)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, fr.ID.String(), wallet.VerifyFundingRequest{
			StatementReference: code, StatementAmount: 250000,
		})

		assert.ErrorIs(t, err, walleterrors.ErrTransactionCodeUsed)
	})

	t.Run("unknown request", func(t *testing.T) {
		d := setupServiceTest(t, 0)
		expectTx(t, d.mock, false)

		_, err := d.svc.Verify(ctx, d.companyID, verifier, uuid.NewString(), wallet.VerifyFundingRequest{
			StatementReference: "KZF-00000000-000001", StatementAmount: 100,
		})

		assert.ErrorIs(t, err, walleterrors.ErrFundingRequestNotFound)
	})
}

func TestWalletService_BulkVerify(t *testing.T) {
	d := setupServiceTest(t, 0)

	good := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPendingApproval, 100000)
	goodAmount := int64(100000)
	good.ProofAmount = &goodAmount

	short := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPendingApproval, 100000)
	shortAmount := int64(90000)
	short.ProofAmount = &shortAmount

	pending := d.addRequest(wallet.MethodBankTransfer, wallet.FundingPending, 100000)

	expectTx(t, d.mock, true)
	expectTx(t, d.mock, false)
	expectTx(t, d.mock, false)
	d.expectOutboxEvent(t, events.WalletFundingCompleted)

	resp, err := d.svc.BulkVerify(context.Background(), d.companyID, uuid.NewString(), []string{
		good.ID.String(), short.ID.String(), pending.ID.String(),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Verified)
	assert.Equal(t, 2, resp.Failed)
	assert.Equal(t, apperror.CodeAmountMismatch, resp.Results[1].Code)
	assert.Equal(t, apperror.CodeNotAwaitingVerify, resp.Results[2].Code)
	assert.Equal(t, int64(100000), d.wallet.Balance)
	assert.NoError(t, d.mock.ExpectationsWereMet())
}

func TestWalletService_Reject(t *testing.T) {
	d := setupServiceTest(t, 0)
	fr := d.addRequest(wallet.MethodMpesa, wallet.FundingPendingApproval, 100000)
	expectTx(t, d.mock, true)

	resp, err := d.svc.Reject(context.Background(), d.companyID, uuid.NewString(), fr.ID.String(), wallet.RejectFundingRequest{Reason: "code not on statement"})

	assert.NoError(t, err)
	assert.Equal(t, wallet.FundingFailed, resp.Status)
	assert.Equal(t, "code not on statement", *resp.FailureReason)
}

func TestWalletService_Debit(t *testing.T) {
	ctx := context.Background()

	begin := func(t *testing.T, d *serviceDeps) *sql.Tx {
		d.mock.ExpectBegin()
		tx, err := d.db.Begin()
		assert.NoError(t, err)
		return tx
	}

	t.Run("debits and records the ledger line", func(t *testing.T) {
		d := setupServiceTest(t, 500000)
		tx := begin(t, d)

		resp, err := d.svc.Debit(ctx, tx, wallet.DebitParams{CompanyID: d.companyID, Amount: 200000, Reference: "PAYROLL-1"})

		assert.NoError(t, err)
		assert.Equal(t, int64(300000), resp.BalanceAfter)
		assert.Equal(t, int64(300000), d.wallet.Balance)
	})

	t.Run("insufficient funds reports the shortfall", func(t *testing.T) {
		d := setupServiceTest(t, 1000)
		tx := begin(t, d)

		_, err := d.svc.Debit(ctx, tx, wallet.DebitParams{CompanyID: d.companyID, Amount: 5000, Reference: "PAYROLL-1"})

		assert.ErrorIs(t, err, walleterrors.ErrInsufficientFunds)
		details := apperror.ToHTTP(err).Details.(map[string]int64)
		assert.Equal(t, int64(4000), details["shortfall"])
		assert.Equal(t, int64(1000), d.wallet.Balance)
	})

	t.Run("same reference twice", func(t *testing.T) {
		d := setupServiceTest(t, 500000)
		tx := begin(t, d)

		_, err := d.svc.Debit(ctx, tx, wallet.DebitParams{CompanyID: d.companyID, Amount: 100, Reference: "PAYROLL-1"})
		assert.NoError(t, err)
		_, err = d.svc.Debit(ctx, tx, wallet.DebitParams{CompanyID: d.companyID, Amount: 100, Reference: "PAYROLL-1"})

		assert.ErrorIs(t, err, walleterrors.ErrDuplicateTransaction)
		assert.Equal(t, int64(499900), d.wallet.Balance)
	})
}

func TestWalletService_GetWallet(t *testing.T) {
	d := setupServiceTest(t, 4200)

	resp, err := d.svc.GetWallet(context.Background(), d.companyID)
	assert.NoError(t, err)
	assert.Equal(t, int64(4200), resp.Balance)

	_, err = d.svc.GetWallet(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, walleterrors.ErrWalletNotFound)

	raw, _ := json.Marshal(resp)
	assert.Contains(t, string(raw), `"currency":"KES"`)
}
