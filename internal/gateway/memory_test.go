package gateway_test

import (
	"bytes"
	"context"
	"testing"

	"kazini-payroll/internal/gateway"
	"kazini-payroll/internal/payrollconfig"
	"kazini-payroll/internal/payrollcycle"
	"kazini-payroll/internal/payrollemployee"
	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/wallet"

	"github.com/stretchr/testify/assert"
)

func addEmployee(t *testing.T, gw gateway.Gateway, name, account string, amount int64) payrollemployee.EmployeeResponse {
	t.Helper()
	emp, err := gw.CreateEmployee(context.Background(), payrollemployee.CreateEmployeeRequest{
		FullName:      name,
		BankCode:      "68",
		AccountNumber: account,
		Amount:        amount,
	})
	assert.NoError(t, err)
	return emp
}

func fund(t *testing.T, gw gateway.Gateway, amount int64, code string) {
	t.Helper()
	ctx := context.Background()
	fr, err := gw.CreateFundingRequest(ctx, wallet.CreateFundingRequest{Amount: amount, PaymentMethod: wallet.MethodMpesa})
	assert.NoError(t, err)
	_, err = gw.SubmitMpesaProof(ctx, fr.ID, wallet.MpesaProofRequest{TransactionCode: code})
	assert.NoError(t, err)
	_, err = gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: code, StatementAmount: amount})
	assert.NoError(t, err)
}

func TestMemoryGateway_Employees(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMemoryGateway()

	emp := addEmployee(t, gw, "Wanjiku Kamau", "0123456789012", 13300000)
	assert.Equal(t, "Equity Bank", emp.BankName)
	assert.True(t, emp.IsActive)

	t.Run("account must match the bank format", func(t *testing.T) {
		_, err := gw.CreateEmployee(ctx, payrollemployee.CreateEmployeeRequest{
			FullName: "Otieno Odhiambo", BankCode: "68", AccountNumber: "12345678", Amount: 5000000,
		})
		assert.True(t, gateway.HasCode(err, apperror.CodeValidation))
	})

	t.Run("field errors are listed", func(t *testing.T) {
		_, err := gw.CreateEmployee(ctx, payrollemployee.CreateEmployeeRequest{
			FullName: "A", BankCode: "68", AccountNumber: "0123456789099", Amount: 5000000,
		})
		var gwErr *gateway.Error
		assert.ErrorAs(t, err, &gwErr)
		assert.NotEmpty(t, gwErr.Errors)
	})

	t.Run("duplicate account", func(t *testing.T) {
		_, err := gw.CreateEmployee(ctx, payrollemployee.CreateEmployeeRequest{
			FullName: "Someone Else", BankCode: "68", AccountNumber: "0123456789012", Amount: 5000000,
		})
		assert.True(t, gateway.HasCode(err, apperror.CodeConflict))
	})

	t.Run("update", func(t *testing.T) {
		updated, err := gw.UpdateEmployee(ctx, emp.ID, payrollemployee.UpdateEmployeeRequest{
			FullName: "Wanjiku Kamau", BankCode: "01", AccountNumber: "0123456789", Amount: 14000000,
		})
		assert.NoError(t, err)
		assert.Equal(t, "KCB Bank", updated.BankName)
		assert.Equal(t, int64(14000000), updated.Amount)
	})

	list, err := gw.ListEmployees(ctx)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryGateway_PayrollCycle(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMemoryGateway()

	summary, err := gw.GetSummary(ctx)
	assert.NoError(t, err)
	assert.False(t, summary.HasEligibleEmployees)
	assert.Equal(t, payrollcycle.NoticeNoEligibleEmployees, summary.Notice.Code)
	assert.Nil(t, summary.Totals)

	_, err = gw.Process(ctx, payrollcycle.ProcessRequest{})
	assert.True(t, gateway.HasCode(err, apperror.CodeInvalidState))

	addEmployee(t, gw, "Wanjiku Kamau", "0123456789012", 13300000)

	summary, err = gw.GetSummary(ctx)
	assert.NoError(t, err)
	assert.True(t, summary.HasEligibleEmployees)
	assert.Equal(t, int64(10071665), summary.Totals.TotalNetPay)
	assert.Equal(t, int64(10273098), summary.Totals.TotalDisbursementAmount)
	assert.Equal(t, 2024, summary.TaxYear)

	processed, err := gw.Process(ctx, payrollcycle.ProcessRequest{RunDate: "2024-11-28"})
	assert.NoError(t, err)
	cycle := processed.Cycle
	assert.Equal(t, payrollcycle.StatusProcessed, cycle.Status)
	assert.Equal(t, int64(1), *cycle.CycleCount)
	assert.Equal(t, "2024-11-28", *cycle.RunDate)
	assert.Equal(t, payrollcycle.StatusPending, processed.NextCycle.Status)

	t.Run("pending cycle cannot be disbursed", func(t *testing.T) {
		_, err := gw.Disburse(ctx, processed.NextCycle.ID)
		assert.True(t, gateway.HasCode(err, apperror.CodeInvalidState))
	})

	t.Run("empty wallet", func(t *testing.T) {
		_, err := gw.Disburse(ctx, cycle.ID)
		assert.True(t, gateway.HasCode(err, apperror.CodeInsufficientFunds))
	})

	fund(t, gw, 20000000, "SGL7ABC123")

	disbursed, err := gw.Disburse(ctx, cycle.ID)
	assert.NoError(t, err)
	assert.Equal(t, payrollcycle.StatusCompleted, disbursed.Status)
	assert.NotNil(t, disbursed.WalletTransactionID)

	w, err := gw.GetWallet(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(20000000-10273098), w.Balance)

	txs, err := gw.ListTransactions(ctx)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, wallet.DirectionDebit, txs[0].Direction)
	assert.Equal(t, "PAYROLL-"+cycle.ID, txs[0].Reference)

	t.Run("second disbursement is rejected", func(t *testing.T) {
		_, err := gw.Disburse(ctx, cycle.ID)
		assert.True(t, gateway.HasCode(err, apperror.CodeConflict))

		after, _ := gw.GetWallet(ctx)
		assert.Equal(t, w.Balance, after.Balance)
	})

	t.Run("report", func(t *testing.T) {
		rep, err := gw.Report(ctx, cycle.ID, payrollcycle.FormatPDF)
		assert.NoError(t, err)
		assert.True(t, bytes.HasPrefix(rep.Body, []byte("%PDF")))

		_, err = gw.Report(ctx, processed.NextCycle.ID, payrollcycle.FormatXLSX)
		assert.Error(t, err)
	})

	completed, err := gw.ListCycles(ctx, payrollcycle.StatusCompleted)
	assert.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestMemoryGateway_Config(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMemoryGateway()

	cfg, err := gw.GetPayrollConfig(ctx)
	assert.NoError(t, err)
	assert.True(t, cfg.IsDefault)
	assert.Equal(t, payrollconfig.DefaultServiceFeeBps, cfg.ServiceFeeRateBps)
	assert.False(t, cfg.IncludeNssf)

	_, err = gw.SavePayrollConfig(ctx, payrollconfig.UpsertPayrollConfigRequest{ServiceFeeRateBps: 5000, PayDay: 28})
	assert.True(t, gateway.HasCode(err, apperror.CodeValidation))

	saved, err := gw.SavePayrollConfig(ctx, payrollconfig.UpsertPayrollConfigRequest{
		ServiceFeeRateBps: 0, PayDay: 25,
		IncludeNhif: true, IncludeNssf: true, IncludeHousingLevy: true, IsPensionable: true,
	})
	assert.NoError(t, err)
	assert.False(t, saved.IsDefault)

	addEmployee(t, gw, "Wanjiku Kamau", "0123456789012", 13300000)
	summary, err := gw.GetSummary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(9524790), summary.Totals.TotalNetPay)
	assert.Equal(t, int64(0), summary.Totals.TotalKaziniHRFees)
}

func TestMemoryGateway_Funding(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMemoryGateway()

	fr, err := gw.CreateFundingRequest(ctx, wallet.CreateFundingRequest{Amount: 5000000, PaymentMethod: wallet.MethodMpesa})
	assert.NoError(t, err)
	assert.Equal(t, wallet.FundingPending, fr.Status)

	_, err = gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: "SGL7ABC123", StatementAmount: 5000000})
	assert.True(t, gateway.HasCode(err, apperror.CodeNotAwaitingVerify))

	_, err = gw.SubmitMpesaProof(ctx, fr.ID, wallet.MpesaProofRequest{TransactionCode: "sgl7abc123"})
	assert.NoError(t, err)

	_, err = gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: "SGL7ABC999", StatementAmount: 5000000})
	assert.True(t, gateway.HasCode(err, apperror.CodeUnknownReference))

	_, err = gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: "SGL7ABC123", StatementAmount: 9000000})
	assert.True(t, gateway.HasCode(err, apperror.CodeAmountMismatch))

	done, err := gw.VerifyFunding(ctx, fr.ID, wallet.VerifyFundingRequest{StatementReference: "SGL7ABC123", StatementAmount: 5000000})
	assert.NoError(t, err)
	assert.Equal(t, wallet.FundingCompleted, done.Status)

	other, err := gw.CreateFundingRequest(ctx, wallet.CreateFundingRequest{Amount: 1000000, PaymentMethod: wallet.MethodMpesa})
	assert.NoError(t, err)
	_, err = gw.SubmitMpesaProof(ctx, other.ID, wallet.MpesaProofRequest{TransactionCode: "SGL7ABC123"})
	assert.True(t, gateway.HasCode(err, apperror.CodeTransactionCodeUse))
}
