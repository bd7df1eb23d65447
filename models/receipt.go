package models

import "time"

type SettlementOutcome string

const (
	OutcomeCompleted SettlementOutcome = "completed"
	OutcomeDraw      SettlementOutcome = "draw"
	OutcomeCancelled SettlementOutcome = "cancelled"
)

// SettlementReceipt is the durable audit trail of one terminal transition.
// The vault is emptied and released in the same transaction that writes this
// row, so receipts are the only place settled money movements survive.
type SettlementReceipt struct {
	ID             string            `gorm:"primaryKey;type:uuid" json:"id"`
	MatchID        string            `gorm:"index;not null" json:"match_id"`
	Outcome        SettlementOutcome `gorm:"type:varchar(16);not null" json:"outcome"`
	Stake          int64             `gorm:"not null" json:"stake"`
	CreatorID      string            `gorm:"not null" json:"creator_id"`
	OpponentID     *string           `json:"opponent_id,omitempty"`
	WinnerID       *string           `json:"winner_id,omitempty"`
	CancelledBy    *string           `json:"cancelled_by,omitempty"`
	CreatorPayout  int64             `gorm:"not null" json:"creator_payout"`
	OpponentPayout int64             `gorm:"not null" json:"opponent_payout"`
	FeeCollected   int64             `gorm:"not null" json:"fee_collected"` // amount swept to treasury
	SettledAt      time.Time         `gorm:"not null" json:"settled_at"`
	CreatedAt      time.Time         `json:"created_at" gorm:"autoCreateTime"`
}
