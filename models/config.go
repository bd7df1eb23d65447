package models

import "time"

// EscrowConfigID is the primary key of the singleton config row.
const EscrowConfigID = "config"

// EscrowConfig is the process-wide escrow configuration, created once by the
// admin bootstrap. The fee knobs live here (not as literals in the state
// machine) so product can tune them without touching transition logic.
type EscrowConfig struct {
	ID              string    `gorm:"primaryKey;type:varchar(16)" json:"id"`
	AuthorityID     string    `gorm:"not null" json:"authority_id"` // the admin that ran bootstrap
	TreasuryID      string    `gorm:"not null" json:"treasury_id"`
	DrawFeeBps      int64     `gorm:"not null" json:"draw_fee_bps"`
	CancelFeeBps    int64     `gorm:"not null" json:"cancel_fee_bps"`
	TreasuryReserve int64     `gorm:"not null" json:"treasury_reserve"` // minimum balance kept on withdraw
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
