package bankcode

type BankCodeResponse struct {
	Code           string `json:"code"`
	Name           string `json:"name"`
	AccountPattern string `json:"account_pattern"`
}

// SeedBankCode is one entry of the seed file.
type SeedBankCode struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	AccountPattern string `yaml:"account_pattern"`
}
