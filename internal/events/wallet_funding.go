package events

import "time"

const (
	WalletFundingTopic = "kazini.wallet.funding.v1"

	WalletFundingCompleted = "wallet_funding_completed"
)

type WalletFundingCompletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"funding_request_id"`
	CompanyID  string    `json:"company_id"`
	WalletID   string    `json:"wallet_id"`
	Reference  string    `json:"reference"`
	Amount     int64     `json:"amount"`
	VerifiedBy string    `json:"verified_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
