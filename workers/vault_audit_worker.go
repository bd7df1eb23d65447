package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"chess-escrow-service/models"

	"gorm.io/gorm"
)

// VaultAuditor re-checks the custody invariant for every open match: a
// waiting vault must hold exactly the stake, an in-progress vault exactly
// twice the stake. Drift is alerted, never corrected — a mismatched vault
// means tampering or a bug, and the state machine will refuse to settle it.
type VaultAuditor struct {
	DB *gorm.DB
}

func NewVaultAuditor(db *gorm.DB) *VaultAuditor {
	return &VaultAuditor{DB: db}
}

// AuditOnce scans all open matches and returns how many vaults are off.
func (a *VaultAuditor) AuditOnce(ctx context.Context) (int, error) {
	var matches []models.Match
	err := a.DB.WithContext(ctx).
		Where("status IN ?", []models.MatchStatus{models.StatusWaiting, models.StatusInProgress}).
		Find(&matches).Error
	if err != nil {
		return 0, err
	}

	mismatches := 0
	for _, m := range matches {
		expected := m.Stake
		if m.Status == models.StatusInProgress {
			expected = 2 * m.Stake
		}

		var vault models.Account
		err := a.DB.WithContext(ctx).First(&vault, "id = ?", m.VaultID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("🚨 [VAULT_AUDIT] match %s (%s) has no vault account %s", m.ID, m.Status, m.VaultID)
				mismatches++
				continue
			}
			return mismatches, err
		}

		if vault.Balance != expected {
			log.Printf("🚨 [VAULT_AUDIT] match %s (%s): vault holds %d, expected %d", m.ID, m.Status, vault.Balance, expected)
			mismatches++
		}
	}
	return mismatches, nil
}

// PollVaults runs the audit on a fixed interval until ctx is cancelled.
func PollVaults(ctx context.Context, a *VaultAuditor, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Vault audit worker started (every %s)", interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Vault audit worker stopping")
			return
		case <-ticker.C:
			mismatches, err := a.AuditOnce(ctx)
			if err != nil {
				log.Printf("[VAULT_AUDIT] scan failed: %v", err)
				continue
			}
			if mismatches > 0 {
				log.Printf("🚨 [VAULT_AUDIT] %d vault(s) violate the custody invariant", mismatches)
			}
		}
	}
}
