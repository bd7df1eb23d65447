package models

import "time"

// Account kinds. Player accounts hold personal balances, vault accounts hold
// the funds staked on exactly one match, and the treasury accumulates fees.
const (
	AccountKindPlayer   = "player"
	AccountKindVault    = "vault"
	AccountKindTreasury = "treasury"
)

// Account is one row in the custodial balance ledger. The ID is either a
// player's external user ID or a derived address (vault/treasury).
type Account struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Kind      string    `gorm:"type:varchar(16);not null;check:kind IN ('player','vault','treasury')" json:"kind"`
	Balance   int64     `gorm:"not null;default:0;check:balance >= 0" json:"balance"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TransferKind string

const (
	TransferTypeDeposit  TransferKind = "deposit"   // admin faucet credit to a player
	TransferTypeStake    TransferKind = "stake"     // player -> vault on create/accept
	TransferTypePayout   TransferKind = "payout"    // vault -> winner
	TransferTypeRefund   TransferKind = "refund"    // vault -> player on cancel/draw
	TransferTypeFeeSweep TransferKind = "fee_sweep" // vault residue -> treasury
	TransferTypeWithdraw TransferKind = "withdraw"  // treasury -> authority
)

// Transfer journals one atomic balance movement. Written in the same DB
// transaction as the movement itself so the journal never disagrees with the
// account rows.
type Transfer struct {
	ID        string       `gorm:"primaryKey;type:uuid" json:"id"`
	FromID    string       `gorm:"index;not null" json:"from_id"`
	ToID      string       `gorm:"index;not null" json:"to_id"`
	Amount    int64        `gorm:"not null" json:"amount"`
	Kind      TransferKind `gorm:"type:varchar(16);not null" json:"kind"`
	MatchID   *string      `gorm:"index" json:"match_id,omitempty"` // nil for deposits/withdrawals
	CreatedAt time.Time    `json:"created_at" gorm:"autoCreateTime"`
}
