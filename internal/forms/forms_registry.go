package forms

import (
	_ "embed"
	"sort"

	formserrors "kazini-payroll/internal/forms/errors"
	"kazini-payroll/internal/shared/formvalidation"
)

const (
	CompanyRegistration = "company_registration"
	AccountPassword     = "account_password"
	PayrollEmployee     = "payroll_employee"
	PayrollConfig       = "payroll_config"
	WalletFunding       = "wallet_funding"
	BankTransferProof   = "bank_transfer_proof"
	MpesaProof          = "mpesa_proof"
	FundingVerification = "funding_verification"
)

//go:embed rulesets.yaml
var defaultRuleSets []byte

// Registry resolves named rule sets. Services validate with the same rules the
// client receives from GET /forms/:name.
type Registry struct {
	sets map[string]*formvalidation.RuleSet
}

func NewRegistry() (*Registry, error) {
	return NewRegistryFromYAML(defaultRuleSets)
}

func NewRegistryFromYAML(data []byte) (*Registry, error) {
	sets, err := formvalidation.ParseRuleSets(data)
	if err != nil {
		return nil, err
	}
	return &Registry{sets: sets}, nil
}

func MustRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Get(name string) (*formvalidation.RuleSet, error) {
	rs, ok := r.sets[name]
	if !ok {
		return nil, formserrors.ErrRuleSetNotFound
	}
	return rs, nil
}

// Validate checks values against the named rule set.
func (r *Registry) Validate(name string, values map[string]string) error {
	rs, err := r.Get(name)
	if err != nil {
		return err
	}
	return rs.Check(values)
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sets))
	for name := range r.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
