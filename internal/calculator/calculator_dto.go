package calculator

// CalculateRequest amounts are in cents.
type CalculateRequest struct {
	BasicSalary            int64  `json:"basic_salary" binding:"gte=0"`
	Allowances             int64  `json:"allowances" binding:"gte=0"`
	IncomePeriod           string `json:"income_period" binding:"required,oneof=MONTHLY ANNUAL"`
	IncludeNhif            bool   `json:"include_nhif"`
	IncludeNssf            bool   `json:"include_nssf"`
	IncludeHousingLevy     bool   `json:"include_housing_levy"`
	IsPensionable          bool   `json:"is_pensionable"`
	HasDisabilityExemption bool   `json:"has_disability_exemption"`
	CalculationDate        string `json:"calculation_date" binding:"omitempty,datetime=2006-01-02"`
}

type CalculateResponse struct {
	IncomePeriod    string `json:"income_period"`
	TaxYear         int    `json:"tax_year"`
	RateSetVersion  int    `json:"rate_set_version"`
	CalculationDate string `json:"calculation_date"`
	HealthScheme    string `json:"health_scheme"`

	GrossSalary                int64 `json:"gross_salary"`
	TaxableIncome              int64 `json:"taxable_income"`
	DisabilityExemptionApplied int64 `json:"disability_exemption_applied"`
	PayeBeforeRelief           int64 `json:"paye_before_relief"`
	PersonalReliefApplied      int64 `json:"personal_relief_applied"`
	Paye                       int64 `json:"paye"`
	Nhif                       int64 `json:"nhif"`
	Nssf                       int64 `json:"nssf"`
	HousingLevy                int64 `json:"housing_levy"`
	HousingLevyEmployer        int64 `json:"housing_levy_employer"`
	TotalDeductions            int64 `json:"total_deductions"`
	NetSalary                  int64 `json:"net_salary"`
}
