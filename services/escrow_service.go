// services/escrow_service.go
//
// EscrowService drives the match lifecycle: Waiting -> InProgress ->
// {Completed, Draw}, with cancellation closing from either non-terminal
// state. Every operation is one DB transaction: the status change and all
// balance movements commit together or not at all.
package services

import (
	"errors"
	"log"
	"time"

	"chess-escrow-service/models"
	"chess-escrow-service/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EscrowService struct {
	DB *gorm.DB
}

func NewEscrowService(db *gorm.DB) *EscrowService {
	return &EscrowService{DB: db}
}

// lockMatch loads a match row under FOR UPDATE, serializing all transitions
// on the same record.
func lockMatch(tx *gorm.DB, id string) (*models.Match, error) {
	var m models.Match
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

func loadConfig(tx *gorm.DB) (*models.EscrowConfig, error) {
	var cfg models.EscrowConfig
	err := tx.First(&cfg, "id = ?", models.EscrowConfigID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigMissing
		}
		return nil, err
	}
	return &cfg, nil
}

// CreateMatch opens a wager: derives the match/vault addresses from
// creator+seed+code and escrows the creator's stake.
func (s *EscrowService) CreateMatch(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)

	var req struct {
		Stake       int64  `json:"stake"`
		DurationSec int    `json:"duration_sec"`
		Seed        uint64 `json:"seed"`
		Code        string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateCreate(req.Stake); err != nil {
		return respondError(c, err)
	}
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "match code is required"})
	}

	matchID := utils.MatchAddress(callerID, req.Seed, req.Code)
	vaultID := utils.VaultAddress(matchID)

	var created models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Match
		if err := tx.First(&existing, "id = ?", matchID).Error; err == nil {
			return ErrMatchExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		vault := models.Account{ID: vaultID, Kind: models.AccountKindVault}
		if err := tx.Create(&vault).Error; err != nil {
			return err
		}

		caller, err := lockAccount(tx, callerID)
		if err != nil {
			return err
		}
		if err := move(tx, caller, &vault, req.Stake, models.TransferTypeStake, &matchID); err != nil {
			return err
		}

		created = models.Match{
			ID:          matchID,
			Seed:        int64(req.Seed),
			Code:        utils.NormalizeCode(req.Code),
			Stake:       req.Stake,
			DurationSec: req.DurationSec,
			CreatorID:   callerID,
			Status:      models.StatusWaiting,
			VaultID:     vaultID,
			OpenedAt:    time.Now().UTC(),
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [ESCROW] match %s opened by %s, stake %d", created.ID, callerID, created.Stake)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// AcceptMatch joins a waiting match as the opponent and escrows the second
// stake, moving the match to InProgress.
func (s *EscrowService) AcceptMatch(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	matchID := c.Params("id")

	var updated models.Match
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		// terminal matches have released their vault; reject on status
		// before touching accounts
		if m.Status.Terminal() {
			return ErrInvalidMatchStatus
		}

		accounts, err := lockAccounts(tx, m.VaultID, callerID)
		if err != nil {
			return err
		}
		vault, caller := accounts[m.VaultID], accounts[callerID]

		if err := checkCustody(m, vault.Balance); err != nil {
			return err
		}
		if err := validateAccept(m, callerID, caller.Balance); err != nil {
			return err
		}

		if err := move(tx, caller, vault, m.Stake, models.TransferTypeStake, &m.ID); err != nil {
			return err
		}

		m.OpponentID = &callerID
		m.Status = models.StatusInProgress
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		updated = *m
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [ESCROW] match %s accepted by %s, vault holds %d", updated.ID, callerID, 2*updated.Stake)
	return c.JSON(updated)
}

// CancelMatch closes a match before settlement. A waiting match refunds the
// creator in full; an in-progress match penalizes the canceller and makes
// the other side whole.
func (s *EscrowService) CancelMatch(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	matchID := c.Params("id")

	var receipt *models.SettlementReceipt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if m.Status.Terminal() {
			return ErrInvalidMatchStatus
		}

		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}

		vault, err := lockAccount(tx, m.VaultID)
		if err != nil {
			return err
		}
		if err := checkCustody(m, vault.Balance); err != nil {
			return err
		}

		plan, err := cancelPlan(m, callerID, cfg.CancelFeeBps)
		if err != nil {
			return err
		}

		receipt, err = s.applyPlan(tx, m, vault, cfg, plan, models.OutcomeCancelled, &callerID)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [ESCROW] match %s cancelled by %s, fee %d", matchID, callerID, receipt.FeeCollected)
	go archiveReceipt(receipt)
	return c.JSON(receipt)
}

// SettleMatch distributes the pot of an in-progress match. Only the
// configured authority may report an outcome; adjudication itself happens
// off-system. A missing winner_id settles as a draw.
func (s *EscrowService) SettleMatch(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)
	matchID := c.Params("id")

	var req struct {
		WinnerID *string `json:"winner_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var receipt *models.SettlementReceipt
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		cfg, err := loadConfig(tx)
		if err != nil {
			return err
		}
		if callerID != cfg.AuthorityID {
			return ErrAdminOnly
		}

		m, err := lockMatch(tx, matchID)
		if err != nil {
			return err
		}
		if m.Status.Terminal() {
			return ErrInvalidMatchStatus
		}

		vault, err := lockAccount(tx, m.VaultID)
		if err != nil {
			return err
		}
		if err := checkCustody(m, vault.Balance); err != nil {
			return err
		}

		plan, err := settlePlan(m, req.WinnerID, cfg.DrawFeeBps)
		if err != nil {
			return err
		}

		outcome := models.OutcomeDraw
		if plan.Status == models.StatusCompleted {
			m.WinnerID = req.WinnerID
			outcome = models.OutcomeCompleted
		}

		receipt, err = s.applyPlan(tx, m, vault, cfg, plan, outcome, nil)
		return err
	})
	if err != nil {
		return respondError(c, err)
	}

	log.Printf("✅ [ESCROW] match %s settled (%s), fee %d", matchID, receipt.Outcome, receipt.FeeCollected)
	go archiveReceipt(receipt)
	return c.JSON(receipt)
}

// applyPlan executes a terminal transition: pays out, sweeps the vault
// residue to the treasury, releases the vault row, and records the receipt.
// The vault must be locked and custody-checked by the caller.
func (s *EscrowService) applyPlan(tx *gorm.DB, m *models.Match, vault *models.Account,
	cfg *models.EscrowConfig, plan *settlementPlan, outcome models.SettlementOutcome,
	cancelledBy *string) (*models.SettlementReceipt, error) {

	destIDs := make([]string, 0, len(plan.Payments))
	for _, p := range plan.Payments {
		destIDs = append(destIDs, p.To)
	}
	dests, err := lockAccounts(tx, destIDs...)
	if err != nil {
		return nil, err
	}

	payoutByParty := map[string]int64{}
	for _, p := range plan.Payments {
		if err := move(tx, vault, dests[p.To], p.Amount, p.Kind, &m.ID); err != nil {
			return nil, err
		}
		payoutByParty[p.To] += p.Amount
	}

	// Unconditional sweep: whatever the payouts left behind belongs to the
	// treasury, and the vault must be empty before its row is released.
	if vault.Balance > 0 {
		treasury, err := lockAccount(tx, cfg.TreasuryID)
		if err != nil {
			return nil, err
		}
		if err := move(tx, vault, treasury, vault.Balance, models.TransferTypeFeeSweep, &m.ID); err != nil {
			return nil, err
		}
	}
	if vault.Balance != 0 {
		return nil, ErrInvalidVaultBalance
	}
	if err := tx.Delete(&models.Account{}, "id = ?", vault.ID).Error; err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	m.Status = plan.Status
	m.ClosedAt = &now
	if err := tx.Save(m).Error; err != nil {
		return nil, err
	}

	receipt := models.SettlementReceipt{
		ID:            uuid.NewString(),
		MatchID:       m.ID,
		Outcome:       outcome,
		Stake:         m.Stake,
		CreatorID:     m.CreatorID,
		OpponentID:    m.OpponentID,
		WinnerID:      m.WinnerID,
		CancelledBy:   cancelledBy,
		CreatorPayout: payoutByParty[m.CreatorID],
		FeeCollected:  plan.Fee,
		SettledAt:     now,
	}
	if m.OpponentID != nil {
		receipt.OpponentPayout = payoutByParty[*m.OpponentID]
	}
	if err := tx.Create(&receipt).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetMatch returns one match record.
func (s *EscrowService) GetMatch(c *fiber.Ctx) error {
	id := c.Params("id")

	var m models.Match
	if err := s.DB.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, ErrMatchNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(m)
}

// ListMatches returns the caller's matches, or all waiting matches with
// ?status=waiting for opponents browsing for a game.
func (s *EscrowService) ListMatches(c *fiber.Ctx) error {
	callerID := c.Locals("user_id").(string)

	q := s.DB.Order("opened_at DESC").Limit(100)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	} else {
		q = q.Where("creator_id = ? OR opponent_id = ?", callerID, callerID)
	}

	var matches []models.Match
	if err := q.Find(&matches).Error; err != nil {
		log.Printf("DB Error listing matches: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(matches)
}
