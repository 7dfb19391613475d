package company

type RegisterCompanyRequest struct {
	Name               string `json:"name" binding:"required"`
	RegistrationNumber string `json:"registration_number" binding:"required"`
	KraPin             string `json:"kra_pin" binding:"required"`
	Email              string `json:"email" binding:"required"`
	Phone              string `json:"phone" binding:"required"`
}

type UpdateCompanyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CompanyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	KraPin             string `json:"kra_pin"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          string `json:"created_at"`
}

type RegisterCompanyResponse struct {
	Company  CompanyResponse `json:"company"`
	WalletID string          `json:"wallet_id"`
	Role     string          `json:"role"`
}
