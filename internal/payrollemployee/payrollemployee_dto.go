package payrollemployee

type CreateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required,min=2,max=120"`
	BankCode      string `json:"bank_code" binding:"required,numeric,min=2,max=3"`
	AccountNumber string `json:"account_number" binding:"required,numeric,min=6,max=20"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

type UpdateEmployeeRequest struct {
	FullName      string `json:"full_name" binding:"required,min=2,max=120"`
	BankCode      string `json:"bank_code" binding:"required,numeric,min=2,max=3"`
	AccountNumber string `json:"account_number" binding:"required,numeric,min=6,max=20"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

type ListEmployeesRequest struct {
	ActiveOnly bool `form:"active_only"`
	Page       int  `form:"page,default=1" binding:"min=1"`
	PageSize   int  `form:"page_size,default=20" binding:"min=1,max=200"`
}

type EmployeeResponse struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	BankCode      string `json:"bank_code"`
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number"`
	Amount        int64  `json:"amount"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// UploadRow is one CSV line. Amount is gross pay in KES, as typed by payroll
// staff.
type UploadRow struct {
	FullName      string `csv:"full_name"`
	BankCode      string `csv:"bank_code"`
	AccountNumber string `csv:"account_number"`
	Amount        string `csv:"amount"`
}

// RowError reports every problem found on one CSV line. Row is 1-based and
// excludes the header.
type RowError struct {
	Row    int               `json:"row"`
	Fields map[string]string `json:"fields"`
}

type UploadRejection struct {
	Rows   []RowError `json:"rows"`
	Errors []string   `json:"errors"`
}

type BulkUploadResponse struct {
	Created     int                `json:"created"`
	TotalAmount int64              `json:"total_amount"`
	Employees   []EmployeeResponse `json:"employees"`
}
