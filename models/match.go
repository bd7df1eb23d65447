package models

import "time"

type MatchStatus string

const (
	StatusWaiting    MatchStatus = "waiting"     // creator staked, no opponent yet
	StatusInProgress MatchStatus = "in_progress" // both sides staked
	StatusCompleted  MatchStatus = "completed"   // settled with a winner
	StatusDraw       MatchStatus = "draw"        // settled without a winner
	StatusClosed     MatchStatus = "closed"      // cancelled before settlement
)

// Terminal reports whether no further mutation of the match is allowed.
func (s MatchStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusDraw || s == StatusClosed
}

// Match records a single two-party wager on an off-system chess game.
// The ID is derived deterministically from creator+seed+code, and the vault
// address from the match ID, so the same inputs always land on the same row.
type Match struct {
	ID          string      `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Seed        int64       `gorm:"not null" json:"seed"`
	Code        string      `gorm:"type:varchar(64);not null" json:"code"`
	Stake       int64       `gorm:"not null;check:stake > 0" json:"stake"`
	DurationSec int         `gorm:"default:0" json:"duration_sec"` // advisory only, not enforced here
	CreatorID   string      `gorm:"index;not null" json:"creator_id"`
	OpponentID  *string     `gorm:"index" json:"opponent_id,omitempty"` // nil until accepted
	WinnerID    *string     `json:"winner_id,omitempty"`                // set only on decisive settlement
	Status      MatchStatus `gorm:"type:varchar(16);not null;check:status IN ('waiting','in_progress','completed','draw','closed')" json:"status"`
	VaultID     string      `gorm:"uniqueIndex;not null" json:"vault_id"`
	OpenedAt    time.Time   `gorm:"not null" json:"opened_at"`
	ClosedAt    *time.Time  `json:"closed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}
