package wallet

type CreateFundingRequest struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=bank_transfer mpesa"`
}

type BankTransferProofRequest struct {
	BankReference string `json:"bank_reference" binding:"required,min=4,max=64"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	TransferDate  string `json:"transfer_date" binding:"omitempty,datetime=2006-01-02"`
}

type MpesaProofRequest struct {
	TransactionCode string `json:"transaction_code" binding:"required,len=10,alphanum"`
}

// VerifyFundingRequest carries what the verifier reads off the bank or M-PESA
// statement.
type VerifyFundingRequest struct {
	StatementReference string `json:"statement_reference" binding:"required,min=4,max=64"`
	StatementAmount    int64  `json:"statement_amount" binding:"required,gt=0"`
}

type RejectFundingRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=255"`
}

type BulkVerifyRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=100,dive,uuid"`
}

type ListFundingRequestsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending pending_approval completed failed"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=200"`
}

type ListTransactionsRequest struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"page_size,default=20" binding:"min=1,max=200"`
}

type WalletResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Balance   int64  `json:"balance"`
	Currency  string `json:"currency"`
	UpdatedAt string `json:"updated_at"`
}

type TransactionResponse struct {
	ID           string `json:"id"`
	Direction    string `json:"direction"`
	Type         string `json:"type"`
	Amount       int64  `json:"amount"`
	BalanceAfter int64  `json:"balance_after"`
	Reference    string `json:"reference"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type FundingRequestResponse struct {
	ID                   string  `json:"id"`
	Amount               int64   `json:"amount"`
	PaymentMethod        string  `json:"payment_method"`
	Reference            string  `json:"reference"`
	Status               string  `json:"status"`
	BankReference        *string `json:"bank_reference,omitempty"`
	ProofAmount          *int64  `json:"proof_amount,omitempty"`
	TransferDate         *string `json:"transfer_date,omitempty"`
	MpesaTransactionCode *string `json:"mpesa_transaction_code,omitempty"`
	VerifiedBy           *string `json:"verified_by,omitempty"`
	VerifiedAt           *string `json:"verified_at,omitempty"`
	FailureReason        *string `json:"failure_reason,omitempty"`
	CreatedAt            string  `json:"created_at"`
}

type BulkVerifyResult struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type BulkVerifyResponse struct {
	Verified int                `json:"verified"`
	Failed   int                `json:"failed"`
	Results  []BulkVerifyResult `json:"results"`
}
