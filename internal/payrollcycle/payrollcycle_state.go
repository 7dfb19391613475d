package payrollcycle

import (
	payrollcycleerrors "kazini-payroll/internal/payrollcycle/errors"
)

const (
	StatusPending   = "PENDING"
	StatusProcessed = "PROCESSED"
	StatusCompleted = "COMPLETED"
)

var transitions = map[string]string{
	StatusPending:   StatusProcessed,
	StatusProcessed: StatusCompleted,
}

// CanTransition reports whether from may move to to. Each status has exactly
// one successor; nothing moves backwards or skips a step.
func CanTransition(from, to string) bool {
	next, ok := transitions[from]
	return ok && next == to
}

func checkTransition(from, to string) error {
	if CanTransition(from, to) {
		return nil
	}
	return payrollcycleerrors.ErrInvalidTransition.WithDetails(map[string]string{"from": from, "to": to})
}
