package payrollcycle

import (
	"time"
)

func ToCycleResponse(c PayrollCycle) CycleResponse {
	resp := CycleResponse{
		ID:                c.ID.String(),
		CycleCount:        c.CycleCount,
		Status:            c.Status,
		EmployeeCount:     c.EmployeeCount,
		Totals:            cycleTotals(c),
		ServiceFeeRateBps: c.ServiceFeeRateBps,
		TaxYear:           c.TaxYear,
		RateSetVersion:    c.RateSetVersion,
		ProcessedBy:       c.ProcessedBy,
		DisbursedBy:       c.DisbursedBy,
		ReportURL:         c.ReportURL,
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
	}
	if c.RunDate != nil {
		d := c.RunDate.Format(time.DateOnly)
		resp.RunDate = &d
	}
	if c.WalletTransactionID != nil {
		id := c.WalletTransactionID.String()
		resp.WalletTransactionID = &id
	}
	resp.ProcessedAt = formatTime(c.ProcessedAt)
	resp.DisbursedAt = formatTime(c.DisbursedAt)
	return resp
}

func cycleTotals(c PayrollCycle) Totals {
	return Totals{
		TotalGrossPay:            c.TotalGrossPay,
		TotalNetPay:              c.TotalNetPay,
		TotalPayeTax:             c.TotalPayeTax,
		TotalStatutoryDeductions: c.TotalStatutoryDeductions,
		TotalKaziniHRFees:        c.TotalKaziniHRFees,
		TotalDisbursementAmount:  c.TotalDisbursementAmount,
	}
}

func ToItemResponse(i PayrollCycleItem) ItemResponse {
	return ItemResponse{
		ID:                  i.ID.String(),
		EmployeeID:          i.EmployeeID.String(),
		FullName:            i.FullName,
		BankCode:            i.BankCode,
		AccountNumber:       i.AccountNumber,
		GrossPay:            i.GrossPay,
		PayeTax:             i.PayeTax,
		StatutoryDeductions: i.StatutoryDeductions,
		NetPay:              i.NetPay,
		ServiceFee:          i.ServiceFee,
	}
}

func ToSummaryItem(i PayrollCycleItem) SummaryItem {
	return SummaryItem{
		EmployeeID:          i.EmployeeID.String(),
		FullName:            i.FullName,
		GrossPay:            i.GrossPay,
		PayeTax:             i.PayeTax,
		StatutoryDeductions: i.StatutoryDeductions,
		NetPay:              i.NetPay,
		ServiceFee:          i.ServiceFee,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
