package forms

import "kazini-payroll/internal/shared/formvalidation"

type RuleSetResponse struct {
	Name   string                         `json:"name"`
	Fields map[string]formvalidation.Rule `json:"fields"`
}

const (
	EventChange = "change"
	EventBlur   = "blur"
	EventSubmit = "submit"
)

// ValidateRequest replays one interaction against the client's form state.
type ValidateRequest struct {
	Values      map[string]string `json:"values"`
	Errors      map[string]string `json:"errors"`
	Touched     []string          `json:"touched"`
	SubmitCount int               `json:"submit_count" binding:"gte=0"`
	Event       string            `json:"event" binding:"omitempty,oneof=change blur submit"`
	Field       string            `json:"changed_field"`
}

type ValidateResponse struct {
	Errors      map[string]string `json:"errors"`
	Valid       bool              `json:"valid"`
	SubmitCount int               `json:"submit_count"`
}
