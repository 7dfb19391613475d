package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"kazini-payroll/internal/bankcode"
	"kazini-payroll/internal/forms"
	"kazini-payroll/internal/payrollcalc"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"
	"kazini-payroll/internal/payrollemployee"
	payrollemployeeerrors "kazini-payroll/internal/payrollemployee/errors"
	"kazini-payroll/internal/seed"
	"kazini-payroll/internal/taxrate"
	"kazini-payroll/internal/wallet"
	walleterrors "kazini-payroll/internal/wallet/errors"

	"github.com/google/uuid"
)

// MemoryGateway serves one company from memory. It applies the same forms,
// pay computation and cycle state machine as the server.
type MemoryGateway struct {
	mu sync.Mutex

	companyID uuid.UUID
	actorID   string
	registry  *forms.Registry
	now       func() time.Time

	banks     map[string]bankcode.Bank
	bankList  []bankcode.BankCodeResponse
	rates     taxrate.TaxRateSetResponse
	config    payrollconfig.PayrollConfigResponse
	employees []*payrollemployee.PayrollEmployee

	cycles     []*payrollcycle.PayrollCycle
	items      map[uuid.UUID][]payrollcycle.PayrollCycleItem
	cycleCount int64

	walletID     string
	balance      int64
	transactions []wallet.TransactionResponse
	funding      map[string]*wallet.FundingRequestResponse
	fundingSeq   int64
	usedCodes    map[string]bool
}

// NewMemoryGateway starts empty except for the built-in rate set and bank
// codes, with an unconfigured company and a zero wallet.
func NewMemoryGateway() *MemoryGateway {
	data := seed.Default()
	m := &MemoryGateway{
		companyID: uuid.New(),
		actorID:   uuid.NewString(),
		registry:  forms.MustRegistry(),
		now:       time.Now,
		banks:     make(map[string]bankcode.Bank, len(data.BankCodes)),
		items:     make(map[uuid.UUID][]payrollcycle.PayrollCycleItem),
		walletID:  uuid.NewString(),
		funding:   make(map[string]*wallet.FundingRequestResponse),
		usedCodes: make(map[string]bool),
	}
	for _, b := range data.BankCodes {
		bank, err := bankcode.NewBank(b.Code, b.Name, b.AccountPattern)
		if err != nil {
			panic(err)
		}
		m.banks[b.Code] = bank
		m.bankList = append(m.bankList, bankcode.BankCodeResponse(b))
	}
	sort.Slice(m.bankList, func(i, j int) bool { return m.bankList[i].Code < m.bankList[j].Code })

	latest := data.TaxRates[len(data.TaxRates)-1]
	m.rates = taxrate.TaxRateSetResponse{
		ID:            uuid.NewString(),
		TaxYear:       latest.TaxYear,
		Version:       1,
		EffectiveFrom: latest.EffectiveFrom,
		IsActive:      true,
		CreatedAt:     m.now().Format(time.RFC3339),
		RateTables:    latest.RateTables,
	}
	m.config = payrollconfig.PayrollConfigResponse{
		CompanyID:         m.companyID.String(),
		ServiceFeeRateBps: payrollconfig.DefaultServiceFeeBps,
		PayDay:            payrollconfig.DefaultPayDay,
		IsDefault:         true,
	}
	return m
}

func (m *MemoryGateway) checkEmployee(fullName, code, account string, amount int64) error {
	if err := m.registry.Validate(forms.PayrollEmployee, map[string]string{
		"full_name":      strings.TrimSpace(fullName),
		"bank_code":      code,
		"account_number": account,
		"amount":         payrollcalc.FromCents(amount).StringFixed(2),
	}); err != nil {
		return err
	}
	bank, ok := m.banks[code]
	if !ok {
		return payrollemployeeerrors.ErrUnknownBankCode
	}
	if !bank.AccountValid(account) {
		return payrollemployeeerrors.ErrInvalidAccountNumber
	}
	return nil
}

func (m *MemoryGateway) accountTaken(code, account string, except uuid.UUID) bool {
	for _, e := range m.employees {
		if e.ID != except && e.BankCode == code && e.AccountNumber == account {
			return true
		}
	}
	return false
}

func (m *MemoryGateway) employeeResponse(e payrollemployee.PayrollEmployee) payrollemployee.EmployeeResponse {
	return payrollemployee.EmployeeResponse{
		ID:            e.ID.String(),
		FullName:      e.FullName,
		BankCode:      e.BankCode,
		BankName:      m.banks[e.BankCode].Name,
		AccountNumber: e.AccountNumber,
		Amount:        e.Amount,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.Format(time.RFC3339),
	}
}

func (m *MemoryGateway) ListEmployees(context.Context) ([]payrollemployee.EmployeeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]payrollemployee.EmployeeResponse, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, m.employeeResponse(*e))
	}
	return out, nil
}

func (m *MemoryGateway) CreateEmployee(_ context.Context, req payrollemployee.CreateEmployeeRequest) (payrollemployee.EmployeeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkEmployee(req.FullName, req.BankCode, req.AccountNumber, req.Amount); err != nil {
		return payrollemployee.EmployeeResponse{}, fromServiceError(err)
	}
	if m.accountTaken(req.BankCode, req.AccountNumber, uuid.Nil) {
		return payrollemployee.EmployeeResponse{}, fromServiceError(payrollemployeeerrors.ErrDuplicateAccount)
	}

	now := m.now()
	emp := &payrollemployee.PayrollEmployee{
		ID:            uuid.New(),
		CompanyID:     m.companyID,
		FullName:      strings.TrimSpace(req.FullName),
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
		IsActive:      true,
		CreatedBy:     &m.actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.employees = append(m.employees, emp)
	return m.employeeResponse(*emp), nil
}

func (m *MemoryGateway) UpdateEmployee(_ context.Context, id string, req payrollemployee.UpdateEmployeeRequest) (payrollemployee.EmployeeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var emp *payrollemployee.PayrollEmployee
	for _, e := range m.employees {
		if e.ID.String() == id {
			emp = e
			break
		}
	}
	if emp == nil {
		return payrollemployee.EmployeeResponse{}, fromServiceError(payrollemployeeerrors.ErrEmployeeNotFound)
	}
	if err := m.checkEmployee(req.FullName, req.BankCode, req.AccountNumber, req.Amount); err != nil {
		return payrollemployee.EmployeeResponse{}, fromServiceError(err)
	}
	if m.accountTaken(req.BankCode, req.AccountNumber, emp.ID) {
		return payrollemployee.EmployeeResponse{}, fromServiceError(payrollemployeeerrors.ErrDuplicateAccount)
	}

	emp.FullName = strings.TrimSpace(req.FullName)
	emp.BankCode = req.BankCode
	emp.AccountNumber = req.AccountNumber
	emp.Amount = req.Amount
	emp.UpdatedAt = m.now()
	return m.employeeResponse(*emp), nil
}

func (m *MemoryGateway) ListBankCodes(context.Context) ([]bankcode.BankCodeResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bankcode.BankCodeResponse(nil), m.bankList...), nil
}

func (m *MemoryGateway) GetPayrollConfig(context.Context) (payrollconfig.PayrollConfigResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config, nil
}

func (m *MemoryGateway) SavePayrollConfig(_ context.Context, req payrollconfig.UpsertPayrollConfigRequest) (payrollconfig.PayrollConfigResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Validate(forms.PayrollConfig, map[string]string{
		"service_fee_rate_bps": fmt.Sprint(req.ServiceFeeRateBps),
		"pay_day":              fmt.Sprint(req.PayDay),
	}); err != nil {
		return payrollconfig.PayrollConfigResponse{}, fromServiceError(err)
	}

	m.config = payrollconfig.PayrollConfigResponse{
		CompanyID:          m.companyID.String(),
		ServiceFeeRateBps:  req.ServiceFeeRateBps,
		PayDay:             req.PayDay,
		IncludeNhif:        req.IncludeNhif,
		IncludeNssf:        req.IncludeNssf,
		IncludeHousingLevy: req.IncludeHousingLevy,
		IsPensionable:      req.IsPensionable,
		UpdatedAt:          m.now().Format(time.RFC3339),
	}
	return m.config, nil
}

func (m *MemoryGateway) compute() (payrollcycle.Computation, error) {
	active := make([]payrollemployee.PayrollEmployee, 0, len(m.employees))
	for _, e := range m.employees {
		if e.IsActive {
			active = append(active, *e)
		}
	}
	return payrollcycle.Compute(active, m.config, m.rates.ToEngine(), m.now())
}

func (m *MemoryGateway) pending() *payrollcycle.PayrollCycle {
	for _, c := range m.cycles {
		if c.Status == payrollcycle.StatusPending {
			return c
		}
	}
	c := &payrollcycle.PayrollCycle{
		ID:        uuid.New(),
		CompanyID: m.companyID,
		Status:    payrollcycle.StatusPending,
		CreatedAt: m.now(),
	}
	m.cycles = append(m.cycles, c)
	return c
}

func (m *MemoryGateway) findCycle(id string) (*payrollcycle.PayrollCycle, error) {
	for _, c := range m.cycles {
		if c.ID.String() == id {
			return c, nil
		}
	}
	return nil, payrollcycleerrors.ErrCycleNotFound
}

func (m *MemoryGateway) GetSummary(context.Context) (payrollcycle.SummaryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	comp, err := m.compute()
	if err != nil {
		return payrollcycle.SummaryResponse{}, fromServiceError(err)
	}

	resp := payrollcycle.SummaryResponse{
		Status:            payrollcycle.StatusPending,
		EmployeeCount:     len(comp.Items),
		ServiceFeeRateBps: comp.FeeBps,
		TaxYear:           comp.TaxYear,
		RateSetVersion:    comp.RateSetVersion,
		Items:             make([]payrollcycle.SummaryItem, 0, len(comp.Items)),
	}
	for _, c := range m.cycles {
		if c.Status == payrollcycle.StatusPending {
			resp.CycleID = c.ID.String()
		}
	}
	if len(comp.Items) == 0 {
		resp.Notice = &payrollcycle.Notice{
			Code:    payrollcycle.NoticeNoEligibleEmployees,
			Message: payrollcycle.NoticeNoEligibleEmployeesMessage,
		}
		return resp, nil
	}

	totals := comp.Totals
	resp.HasEligibleEmployees = true
	resp.Totals = &totals
	for _, item := range comp.Items {
		resp.Items = append(resp.Items, payrollcycle.ToSummaryItem(item))
	}
	return resp, nil
}

func (m *MemoryGateway) Process(_ context.Context, req payrollcycle.ProcessRequest) (payrollcycle.ProcessResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	runDate := m.now().Truncate(24 * time.Hour)
	if req.RunDate != "" {
		parsed, err := time.Parse(time.DateOnly, req.RunDate)
		if err != nil {
			return payrollcycle.ProcessResponse{}, fromServiceError(payrollcycleerrors.ErrInvalidRunDate)
		}
		runDate = parsed
	}

	comp, err := m.compute()
	if err != nil {
		return payrollcycle.ProcessResponse{}, fromServiceError(err)
	}
	if len(comp.Items) == 0 {
		return payrollcycle.ProcessResponse{}, fromServiceError(payrollcycleerrors.ErrNoEligibleEmployees)
	}

	cycle := m.pending()
	if !payrollcycle.CanTransition(cycle.Status, payrollcycle.StatusProcessed) {
		return payrollcycle.ProcessResponse{}, fromServiceError(payrollcycleerrors.ErrInvalidTransition)
	}

	m.cycleCount++
	seq := m.cycleCount
	now := m.now()
	cycle.CycleCount = &seq
	cycle.RunDate = &runDate
	cycle.Status = payrollcycle.StatusProcessed
	cycle.ApplyTotals(comp)
	cycle.ProcessedBy = &m.actorID
	cycle.ProcessedAt = &now
	for i := range comp.Items {
		comp.Items[i].CycleID = cycle.ID
	}
	m.items[cycle.ID] = comp.Items

	next := m.pending()
	return payrollcycle.ProcessResponse{
		Cycle:     payrollcycle.ToCycleResponse(*cycle),
		NextCycle: payrollcycle.ToCycleResponse(*next),
	}, nil
}

func (m *MemoryGateway) ListCycles(_ context.Context, status string) ([]payrollcycle.CycleResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]payrollcycle.CycleResponse, 0, len(m.cycles))
	for i := len(m.cycles) - 1; i >= 0; i-- {
		c := m.cycles[i]
		if status == "" || c.Status == status {
			out = append(out, payrollcycle.ToCycleResponse(*c))
		}
	}
	return out, nil
}

func (m *MemoryGateway) Disburse(_ context.Context, cycleID string) (payrollcycle.CycleResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cycle, err := m.findCycle(cycleID)
	if err != nil {
		return payrollcycle.CycleResponse{}, fromServiceError(err)
	}
	switch cycle.Status {
	case payrollcycle.StatusCompleted:
		return payrollcycle.CycleResponse{}, fromServiceError(payrollcycleerrors.ErrCycleAlreadyDisbursed)
	case payrollcycle.StatusPending:
		return payrollcycle.CycleResponse{}, fromServiceError(payrollcycleerrors.ErrCycleNotProcessed)
	}
	if m.balance < cycle.TotalDisbursementAmount {
		return payrollcycle.CycleResponse{}, fromServiceError(walleterrors.ErrInsufficientFunds.WithDetails(map[string]int64{
			"balance":  m.balance,
			"required": cycle.TotalDisbursementAmount,
		}))
	}

	now := m.now()
	m.balance -= cycle.TotalDisbursementAmount
	txID := uuid.New()
	m.transactions = append(m.transactions, wallet.TransactionResponse{
		ID:           txID.String(),
		Direction:    wallet.DirectionDebit,
		Type:         wallet.TxTypeDisbursement,
		Amount:       cycle.TotalDisbursementAmount,
		BalanceAfter: m.balance,
		Reference:    "PAYROLL-" + cycle.ID.String(),
		Description:  fmt.Sprintf("Payroll cycle %d", *cycle.CycleCount),
		CreatedAt:    now.Format(time.RFC3339),
	})

	cycle.Status = payrollcycle.StatusCompleted
	cycle.WalletTransactionID = &txID
	cycle.DisbursedBy = &m.actorID
	cycle.DisbursedAt = &now
	return payrollcycle.ToCycleResponse(*cycle), nil
}

func (m *MemoryGateway) Report(_ context.Context, cycleID, format string) (payrollcycle.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if format == "" {
		format = payrollcycle.FormatXLSX
	}
	if format != payrollcycle.FormatXLSX && format != payrollcycle.FormatPDF {
		return payrollcycle.Report{}, fromServiceError(payrollcycleerrors.ErrUnsupportedReportFormat)
	}
	cycle, err := m.findCycle(cycleID)
	if err != nil {
		return payrollcycle.Report{}, fromServiceError(err)
	}
	if cycle.Status == payrollcycle.StatusPending {
		return payrollcycle.Report{}, fromServiceError(payrollcycleerrors.ErrCycleNotProcessed)
	}
	rep, err := payrollcycle.RenderReport(*cycle, m.items[cycle.ID], format)
	if err != nil {
		return payrollcycle.Report{}, fromServiceError(err)
	}
	return rep, nil
}

func (m *MemoryGateway) GetWallet(context.Context) (wallet.WalletResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return wallet.WalletResponse{
		ID:        m.walletID,
		CompanyID: m.companyID.String(),
		Balance:   m.balance,
		Currency:  wallet.DefaultCurrency,
		UpdatedAt: m.now().Format(time.RFC3339),
	}, nil
}

func (m *MemoryGateway) ListTransactions(context.Context) ([]wallet.TransactionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]wallet.TransactionResponse, 0, len(m.transactions))
	for i := len(m.transactions) - 1; i >= 0; i-- {
		out = append(out, m.transactions[i])
	}
	return out, nil
}

func (m *MemoryGateway) CreateFundingRequest(_ context.Context, req wallet.CreateFundingRequest) (wallet.FundingRequestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.registry.Validate(forms.WalletFunding, map[string]string{
		"payment_method": req.PaymentMethod,
		"amount":         payrollcalc.FromCents(req.Amount).StringFixed(2),
	}); err != nil {
		return wallet.FundingRequestResponse{}, fromServiceError(err)
	}

	m.fundingSeq++
	fr := &wallet.FundingRequestResponse{
		ID:            uuid.NewString(),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Reference:     wallet.FundingReference(m.companyID.String(), m.fundingSeq),
		Status:        wallet.FundingPending,
		CreatedAt:     m.now().Format(time.RFC3339),
	}
	m.funding[fr.ID] = fr
	return *fr, nil
}

func (m *MemoryGateway) SubmitMpesaProof(_ context.Context, id string, req wallet.MpesaProofRequest) (wallet.FundingRequestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code := strings.ToUpper(strings.TrimSpace(req.TransactionCode))
	if err := m.registry.Validate(forms.MpesaProof, map[string]string{"transaction_code": code}); err != nil {
		return wallet.FundingRequestResponse{}, fromServiceError(err)
	}
	if m.usedCodes[code] {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrTransactionCodeUsed)
	}

	fr, ok := m.funding[id]
	if !ok {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrFundingRequestNotFound)
	}
	if fr.PaymentMethod != wallet.MethodMpesa {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrWrongPaymentMethod)
	}
	if fr.Status != wallet.FundingPending {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrProofAlreadySubmitted)
	}

	m.usedCodes[code] = true
	fr.MpesaTransactionCode = &code
	fr.Status = wallet.FundingPendingApproval
	return *fr, nil
}

// VerifyFunding credits the amount on record. The statement amount is only
// compared, never trusted.
func (m *MemoryGateway) VerifyFunding(_ context.Context, id string, req wallet.VerifyFundingRequest) (wallet.FundingRequestResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fr, ok := m.funding[id]
	if !ok {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrFundingRequestNotFound)
	}
	if fr.Status != wallet.FundingPendingApproval {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrNotAwaitingVerification)
	}

	ref := strings.ToUpper(strings.TrimSpace(req.StatementReference))
	matches := ref == fr.Reference
	if fr.PaymentMethod == wallet.MethodMpesa {
		matches = fr.MpesaTransactionCode != nil && *fr.MpesaTransactionCode == ref
	}
	if !matches {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrUnknownReference)
	}
	if req.StatementAmount != fr.Amount {
		return wallet.FundingRequestResponse{}, fromServiceError(walleterrors.ErrAmountMismatch)
	}

	now := m.now()
	m.balance += fr.Amount
	m.transactions = append(m.transactions, wallet.TransactionResponse{
		ID:           uuid.NewString(),
		Direction:    wallet.DirectionCredit,
		Type:         wallet.TxTypeFunding,
		Amount:       fr.Amount,
		BalanceAfter: m.balance,
		Reference:    fr.Reference,
		Description:  "Wallet funding via " + fr.PaymentMethod,
		CreatedAt:    now.Format(time.RFC3339),
	})

	verifiedAt := now.Format(time.RFC3339)
	fr.Status = wallet.FundingCompleted
	fr.VerifiedBy = &m.actorID
	fr.VerifiedAt = &verifiedAt
	return *fr, nil
}

func (m *MemoryGateway) CurrentTaxRates(context.Context) (taxrate.TaxRateSetResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rates, nil
}

func (m *MemoryGateway) InvalidateTaxRateCache(context.Context) error {
	return nil
}

var (
	_ Gateway = (*MemoryGateway)(nil)
	_ Gateway = (*HTTPGateway)(nil)
)
