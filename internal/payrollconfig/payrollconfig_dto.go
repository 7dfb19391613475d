package payrollconfig

type UpsertPayrollConfigRequest struct {
	ServiceFeeRateBps  int  `json:"service_fee_rate_bps" binding:"gte=0,lte=1000"`
	PayDay             int  `json:"pay_day" binding:"required,gte=1,lte=28"`
	IncludeNhif        bool `json:"include_nhif"`
	IncludeNssf        bool `json:"include_nssf"`
	IncludeHousingLevy bool `json:"include_housing_levy"`
	IsPensionable      bool `json:"is_pensionable"`
}

type PayrollConfigResponse struct {
	CompanyID          string `json:"company_id"`
	ServiceFeeRateBps  int    `json:"service_fee_rate_bps"`
	PayDay             int    `json:"pay_day"`
	IncludeNhif        bool   `json:"include_nhif"`
	IncludeNssf        bool   `json:"include_nssf"`
	IncludeHousingLevy bool   `json:"include_housing_levy"`
	IsPensionable      bool   `json:"is_pensionable"`
	// IsDefault is true when the company has not saved a configuration yet.
	IsDefault bool   `json:"is_default"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
