package payrollcycle

const (
	NoticeNoEligibleEmployees        = "NO_ELIGIBLE_EMPLOYEES"
	NoticeNoEligibleEmployeesMessage = "No active employees are eligible for this payroll cycle. Add or reactivate employees before processing."
)

type ProcessRequest struct {
	RunDate string `json:"run_date" binding:"omitempty,datetime=2006-01-02"`
}

type ListCyclesRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING PROCESSED COMPLETED"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=200"`
}

type ReportRequest struct {
	Format string `form:"format,default=xlsx" binding:"oneof=xlsx pdf"`
}

type Totals struct {
	TotalGrossPay            int64 `json:"total_gross_pay"`
	TotalNetPay              int64 `json:"total_net_pay"`
	TotalPayeTax             int64 `json:"total_paye_tax"`
	TotalStatutoryDeductions int64 `json:"total_statutory_deductions"`
	TotalKaziniHRFees        int64 `json:"total_kazinihr_fees"`
	TotalDisbursementAmount  int64 `json:"total_disbursement_amount"`
}

type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SummaryItem struct {
	EmployeeID          string `json:"employee_id"`
	FullName            string `json:"full_name"`
	GrossPay            int64  `json:"gross_pay"`
	PayeTax             int64  `json:"paye_tax"`
	StatutoryDeductions int64  `json:"statutory_deductions"`
	NetPay              int64  `json:"net_pay"`
	ServiceFee          int64  `json:"service_fee"`
}

// SummaryResponse previews the open cycle. Totals is absent, and Notice is
// set, when no employee is eligible.
type SummaryResponse struct {
	CycleID              string        `json:"cycle_id,omitempty"`
	Status               string        `json:"status"`
	EmployeeCount        int           `json:"employee_count"`
	HasEligibleEmployees bool          `json:"has_eligible_employees"`
	Notice               *Notice       `json:"notice,omitempty"`
	Totals               *Totals       `json:"totals,omitempty"`
	ServiceFeeRateBps    int           `json:"service_fee_rate_bps"`
	TaxYear              int           `json:"tax_year"`
	RateSetVersion       int           `json:"rate_set_version"`
	Items                []SummaryItem `json:"items"`
}

type CycleResponse struct {
	ID                  string  `json:"id"`
	CycleCount          *int64  `json:"cycle_count"`
	RunDate             *string `json:"run_date,omitempty"`
	Status              string  `json:"status"`
	EmployeeCount       int     `json:"employee_count"`
	Totals
	ServiceFeeRateBps   int     `json:"service_fee_rate_bps"`
	TaxYear             *int    `json:"tax_year,omitempty"`
	RateSetVersion      *int    `json:"rate_set_version,omitempty"`
	WalletTransactionID *string `json:"wallet_transaction_id,omitempty"`
	ProcessedBy         *string `json:"processed_by,omitempty"`
	ProcessedAt         *string `json:"processed_at,omitempty"`
	DisbursedBy         *string `json:"disbursed_by,omitempty"`
	DisbursedAt         *string `json:"disbursed_at,omitempty"`
	ReportURL           *string `json:"report_url,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

type ItemResponse struct {
	ID                  string `json:"id"`
	EmployeeID          string `json:"employee_id"`
	FullName            string `json:"full_name"`
	BankCode            string `json:"bank_code"`
	AccountNumber       string `json:"account_number"`
	GrossPay            int64  `json:"gross_pay"`
	PayeTax             int64  `json:"paye_tax"`
	StatutoryDeductions int64  `json:"statutory_deductions"`
	NetPay              int64  `json:"net_pay"`
	ServiceFee          int64  `json:"service_fee"`
}

// ProcessResponse returns the frozen cycle and the PENDING cycle opened after it.
type ProcessResponse struct {
	Cycle     CycleResponse `json:"cycle"`
	NextCycle CycleResponse `json:"next_cycle"`
}

type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}
