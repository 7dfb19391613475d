package events

import "time"

const (
	PayrollCycleTopic = "kazini.payroll.cycle.v1"

	PayrollCycleProcessed = "payroll_cycle_processed"
	PayrollCycleDisbursed = "payroll_cycle_disbursed"
)

type PayrollCycleProcessedEvent struct {
	EventType      string    `json:"event_type"`
	CycleID        string    `json:"cycle_id"`
	CompanyID      string    `json:"company_id"`
	CycleCount     int64     `json:"cycle_count"`
	EmployeeCount  int       `json:"employee_count"`
	TotalNetPay    int64     `json:"total_net_pay"`
	TotalAmountDue int64     `json:"total_disbursement_amount"`
	ProcessedBy    string    `json:"processed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type PayrollCycleDisbursedEvent struct {
	EventType      string    `json:"event_type"`
	CycleID        string    `json:"cycle_id"`
	CompanyID      string    `json:"company_id"`
	CycleCount     int64     `json:"cycle_count"`
	TotalAmountDue int64     `json:"total_disbursement_amount"`
	DisbursedBy    string    `json:"disbursed_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
