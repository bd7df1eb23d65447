// services/treasury_service.go
package services

import (
	"errors"
	"log"

	"chess-escrow-service/models"
	"chess-escrow-service/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TreasuryService owns the admin surface: one-time config bootstrap,
// treasury withdrawal and reporting.
type TreasuryService struct {
	DB *gorm.DB
}

func NewTreasuryService(db *gorm.DB) *TreasuryService {
	return &TreasuryService{DB: db}
}

// InitConfig bootstraps the escrow: creates the treasury account and the
// singleton config row. The caller becomes the settlement/withdrawal
// authority. Runs once; re-running returns 409.
func (s *TreasuryService) InitConfig(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)

	var cfg models.EscrowConfig
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.EscrowConfig
		if err := tx.First(&existing, "id = ?", models.EscrowConfigID).Error; err == nil {
			return ErrConfigExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		treasury := models.Account{
			ID:   utils.TreasuryAddress(),
			Kind: models.AccountKindTreasury,
		}
		if err := tx.Create(&treasury).Error; err != nil {
			return err
		}

		cfg = models.EscrowConfig{
			ID:              models.EscrowConfigID,
			AuthorityID:     callerID,
			TreasuryID:      treasury.ID,
			DrawFeeBps:      DefaultDrawFeeBps,
			CancelFeeBps:    DefaultCancelFeeBps,
			TreasuryReserve: DefaultTreasuryReserve,
		}
		return tx.Create(&cfg).Error
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [TREASURY] escrow config initialized, authority %s", callerID)
	return c.Status(fiber.StatusCreated).JSON(cfg)
}

// WithdrawTreasury pays the treasury balance above the configured reserve
// out to the authority's ledger account.
func (s *TreasuryService) WithdrawTreasury(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)

	var withdrawn int64
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}
		if callerID != cfg.AuthorityID {
			return ErrAdminOnly
		}

		accounts, err := lockAccounts(tx, cfg.TreasuryID, callerID)
		if err != nil {
			return err
		}
		treasury, authority := accounts[cfg.TreasuryID], accounts[callerID]

		// the reserve stays behind, mirroring the rent-exempt minimum the
		// treasury account must always hold
		withdrawn = treasury.Balance - cfg.TreasuryReserve
		if withdrawn <= 0 {
			withdrawn = 0
			return nil
		}
		return move(tx, treasury, authority, withdrawn, models.TransferTypeWithdraw, nil)
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [TREASURY] %s withdrew %d", callerID, withdrawn)
	return c.JSON(fiber.Map{"withdrawn": withdrawn})
}

// TreasuryReport returns the treasury balance and lifetime fee totals.
func (s *TreasuryService) TreasuryReport(c *fiber.Ctx) error {
	cfg, err := loadConfig(s.DB)
	if err != nil {
		return respondError(c, err)
	}

	var treasury models.Account
	if err := s.DB.First(&treasury, "id = ?", cfg.TreasuryID).Error; err != nil {
		return respondError(c, ErrAccountNotFound)
	}

	var totals struct {
		Receipts  int64
		FeesTotal int64
	}
	row := s.DB.Model(&models.SettlementReceipt{}).
		Select("COUNT(*) AS receipts, COALESCE(SUM(fee_collected), 0) AS fees_total").
		Row()
	if err := row.Scan(&totals.Receipts, &totals.FeesTotal); err != nil {
		log.Printf("DB Error aggregating receipts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{
		"treasury_id":   cfg.TreasuryID,
		"balance":       treasury.Balance,
		"reserve":       cfg.TreasuryReserve,
		"settlements":   totals.Receipts,
		"fees_lifetime": totals.FeesTotal,
	})
}
