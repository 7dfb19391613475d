package wallet

import "time"

func mapWallet(w Wallet) WalletResponse {
	return WalletResponse{
		ID:        w.ID.String(),
		CompanyID: w.CompanyID.String(),
		Balance:   w.Balance,
		Currency:  w.Currency,
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

func mapTransaction(t WalletTransaction) TransactionResponse {
	return TransactionResponse{
		ID:           t.ID.String(),
		Direction:    t.Direction,
		Type:         t.Type,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Reference:    t.Reference,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt.Format(time.RFC3339),
	}
}

func mapFundingRequest(fr WalletFundingRequest) FundingRequestResponse {
	resp := FundingRequestResponse{
		ID:                   fr.ID.String(),
		Amount:               fr.Amount,
		PaymentMethod:        fr.PaymentMethod,
		Reference:            fr.Reference,
		Status:               fr.Status,
		BankReference:        fr.BankReference,
		ProofAmount:          fr.ProofAmount,
		MpesaTransactionCode: fr.MpesaTransactionCode,
		VerifiedBy:           fr.VerifiedBy,
		FailureReason:        fr.FailureReason,
		CreatedAt:            fr.CreatedAt.Format(time.RFC3339),
	}
	if fr.TransferDate != nil {
		d := fr.TransferDate.Format(time.DateOnly)
		resp.TransferDate = &d
	}
	if fr.VerifiedAt != nil {
		v := fr.VerifiedAt.Format(time.RFC3339)
		resp.VerifiedAt = &v
	}
	return resp
}
