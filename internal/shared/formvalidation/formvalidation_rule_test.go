package formvalidation_test

import (
	"testing"

	"kazini-payroll/internal/shared/apperror"
	"kazini-payroll/internal/shared/formvalidation"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestValidateField_Required(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"company_name": {Required: true},
		"notes":        {MinLength: 5},
	})

	assert.Equal(t, "Company name is required", rs.ValidateField("company_name", map[string]string{"company_name": ""}))
	assert.Equal(t, "Company name is required", rs.ValidateField("company_name", map[string]string{"company_name": "   "}))
	assert.Empty(t, rs.ValidateField("notes", map[string]string{}), "empty optional field is valid")
}

func TestValidateField_OrderShortCircuits(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"amount": {
			Required:  true,
			MaxLength: 6,
			Numeric:   true,
			Min:       floatPtr(1),
			Pattern:   `^\d+$`,
		},
	})

	cases := map[string]string{
		"1234567": "Amount must be at most 6 characters",
		"abc":     "Amount must be a number",
		"0":       "Amount must be at least 1",
		"1.5":     "Amount is invalid",
		"150":     "",
	}
	for value, want := range cases {
		assert.Equal(t, want, rs.ValidateField("amount", map[string]string{"amount": value}), value)
	}
}

func TestValidateField_IntegerAndBounds(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"pay_day": {Integer: true, Min: floatPtr(1), Max: floatPtr(28), Label: "Pay day"},
	})

	assert.Equal(t, "Pay day must be a whole number", rs.ValidateField("pay_day", map[string]string{"pay_day": "2.5"}))
	assert.Equal(t, "Pay day must be at most 28", rs.ValidateField("pay_day", map[string]string{"pay_day": "31"}))
	assert.Empty(t, rs.ValidateField("pay_day", map[string]string{"pay_day": "25"}))
}

func TestValidateField_NumericRejectsNonFinite(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"amount": {Numeric: true, Min: floatPtr(0.01), Label: "Amount"},
	})

	for _, value := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		assert.Equal(t, "Amount must be a number", rs.ValidateField("amount", map[string]string{"amount": value}), value)
	}
	assert.Empty(t, rs.ValidateField("amount", map[string]string{"amount": "12.50"}))
}

func TestValidateField_NumericAcceptsThousandsSeparators(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"basic_salary": {Numeric: true, Min: floatPtr(0)},
	})

	assert.Empty(t, rs.ValidateField("basic_salary", map[string]string{"basic_salary": "125,000"}))
}

func TestValidateField_Match(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"password":        {Required: true},
		"confirmPassword": {Required: true, Match: "password"},
	})

	values := map[string]string{"password": "s3cret-pass", "confirmPassword": "s3cret-pas"}
	assert.Equal(t, "Confirm password does not match Password", rs.ValidateField("confirmPassword", values))

	values["confirmPassword"] = "s3cret-pass"
	assert.Empty(t, rs.ValidateField("confirmPassword", values))
}

func TestValidateField_CustomRunsLast(t *testing.T) {
	calls := 0
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"code": {
			Required:  true,
			MinLength: 3,
			Custom: func(value string, values map[string]string) string {
				calls++
				if value == "bad" {
					return "Code is blocked"
				}
				return ""
			},
		},
	})

	assert.Equal(t, "Code must be at least 3 characters", rs.ValidateField("code", map[string]string{"code": "ab"}))
	assert.Equal(t, 0, calls)
	assert.Equal(t, "Code is blocked", rs.ValidateField("code", map[string]string{"code": "bad"}))
	assert.Equal(t, 1, calls)
}

func TestValidateField_Expression(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"payment_method": {Required: true},
		"amount": {
			Required:     true,
			Numeric:      true,
			Dependencies: []string{"payment_method"},
			Expr:         `values["payment_method"] != "mpesa" || number <= 250000.0`,
			Messages:     formvalidation.Messages{Custom: "M-PESA top-ups are limited to 250,000"},
		},
	})

	values := map[string]string{"payment_method": "mpesa", "amount": "300000"}
	assert.Equal(t, "M-PESA top-ups are limited to 250,000", rs.ValidateField("amount", values))

	values["payment_method"] = "bank_transfer"
	assert.Empty(t, rs.ValidateField("amount", values))
	assert.Equal(t, []string{"amount"}, rs.Dependents("payment_method"))
}

func TestNewRuleSet_RejectsBrokenRules(t *testing.T) {
	_, err := formvalidation.NewRuleSet(map[string]formvalidation.Rule{"a": {Pattern: "("}})
	assert.Error(t, err)

	_, err = formvalidation.NewRuleSet(map[string]formvalidation.Rule{"a": {Expr: `value + 1`}})
	assert.Error(t, err)

	_, err = formvalidation.NewRuleSet(map[string]formvalidation.Rule{"a": {Expr: `size(value)`}})
	assert.Error(t, err, "non-boolean expression")

	_, err = formvalidation.NewRuleSet(map[string]formvalidation.Rule{"a": {Match: "missing"}})
	assert.Error(t, err)
}

func TestRuleSet_Check(t *testing.T) {
	rs := formvalidation.MustRuleSet(map[string]formvalidation.Rule{
		"account_number": {Required: true},
		"bank_code":      {Required: true},
	})

	err := rs.Check(map[string]string{"bank_code": "01"})

	httpErr := apperror.ToHTTP(err)
	assert.Equal(t, apperror.CodeValidation, httpErr.Code)
	details := httpErr.Details.(apperror.FieldErrors)
	assert.Equal(t, map[string]string{"account_number": "Account number is required"}, details.Fields)

	assert.NoError(t, rs.Check(map[string]string{"bank_code": "01", "account_number": "123"}))
}

func TestParseRuleSets(t *testing.T) {
	doc := []byte(`
account_password:
  fields:
    password:
      required: true
      min_length: 8
    confirmPassword:
      label: Password confirmation
      required: true
      match: password
      messages:
        match: Passwords do not match
`)

	sets, err := formvalidation.ParseRuleSets(doc)

	assert.NoError(t, err)
	rs := sets["account_password"]
	assert.NotNil(t, rs)
	assert.Equal(t, []string{"confirmPassword", "password"}, rs.Fields())
	assert.Equal(t, []string{"confirmPassword"}, rs.Dependents("password"))
	assert.Equal(t, "Passwords do not match", rs.ValidateField("confirmPassword", map[string]string{
		"password":        "longenough",
		"confirmPassword": "different1",
	}))
}
