package taxrate

// Amounts are monthly, in cents. Rates are percentages (2.75 means 2.75%).

type TaxBandDTO struct {
	MinIncome   int64   `json:"min_income" yaml:"min_income" binding:"gte=0"`
	MaxIncome   *int64  `json:"max_income,omitempty" yaml:"max_income"`
	RatePercent float64 `json:"rate_percent" yaml:"rate_percent" binding:"gte=0,lte=100"`
}

type NHIFBracketDTO struct {
	MinIncome int64  `json:"min_income" yaml:"min_income" binding:"gte=0"`
	MaxIncome *int64 `json:"max_income,omitempty" yaml:"max_income"`
	Amount    int64  `json:"amount" yaml:"amount" binding:"gte=0"`
}

type HealthSchemeDTO struct {
	Kind        string           `json:"kind" yaml:"kind" binding:"required,oneof=SHIF NHIF"`
	RatePercent float64          `json:"rate_percent" yaml:"rate_percent" binding:"gte=0,lte=100"`
	Floor       int64            `json:"floor" yaml:"floor" binding:"gte=0"`
	Ceiling     *int64           `json:"ceiling,omitempty" yaml:"ceiling"`
	Brackets    []NHIFBracketDTO `json:"brackets,omitempty" yaml:"brackets" binding:"dive"`
}

type NSSFDTO struct {
	Tier1RatePercent float64 `json:"tier1_rate_percent" yaml:"tier1_rate_percent" binding:"gte=0,lte=100"`
	Tier1Limit       int64   `json:"tier1_limit" yaml:"tier1_limit" binding:"gte=0"`
	Tier2RatePercent float64 `json:"tier2_rate_percent" yaml:"tier2_rate_percent" binding:"gte=0,lte=100"`
	Tier2Limit       int64   `json:"tier2_limit" yaml:"tier2_limit" binding:"gte=0"`
}

type HousingLevyDTO struct {
	EmployeeRatePercent float64 `json:"employee_rate_percent" yaml:"employee_rate_percent" binding:"gte=0,lte=100"`
	EmployerRatePercent float64 `json:"employer_rate_percent" yaml:"employer_rate_percent" binding:"gte=0,lte=100"`
}

// RateTables is the body shared by create requests, responses and the seed file.
type RateTables struct {
	Bands                         []TaxBandDTO    `json:"bands" yaml:"bands" binding:"required,min=1,dive"`
	PersonalRelief                int64           `json:"personal_relief" yaml:"personal_relief" binding:"gte=0"`
	DisabilityExemption           int64           `json:"disability_exemption" yaml:"disability_exemption" binding:"gte=0"`
	Health                        HealthSchemeDTO `json:"health" yaml:"health"`
	NSSF                          NSSFDTO         `json:"nssf" yaml:"nssf"`
	HousingLevy                   HousingLevyDTO  `json:"housing_levy" yaml:"housing_levy"`
	NSSFDeductibleWhenPensionable bool            `json:"nssf_deductible_when_pensionable" yaml:"nssf_deductible_when_pensionable"`
	HealthDeductible              bool            `json:"health_deductible" yaml:"health_deductible"`
	HousingLevyDeductible         bool            `json:"housing_levy_deductible" yaml:"housing_levy_deductible"`
}

type CreateTaxRateRequest struct {
	TaxYear       int    `json:"tax_year" yaml:"tax_year" binding:"required,gte=2000,lte=2100"`
	EffectiveFrom string `json:"effective_from" yaml:"effective_from" binding:"required"`
	RateTables    `yaml:",inline"`
}

type TaxRateSetResponse struct {
	ID            string `json:"id"`
	TaxYear       int    `json:"tax_year"`
	Version       int    `json:"version"`
	EffectiveFrom string `json:"effective_from"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	RateTables
}
