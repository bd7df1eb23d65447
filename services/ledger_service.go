// services/ledger_service.go
package services

import (
	"errors"
	"log"
	"sort"

	"chess-escrow-service/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the custodial balance ledger: player, vault and
// treasury account rows plus the transfer journal.
type LedgerService struct {
	DB *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{DB: db}
}

// lockAccount loads an account row under FOR UPDATE inside tx.
func lockAccount(tx *gorm.DB, id string) (*models.Account, error) {
	var acct models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&acct, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acct, nil
}

// lockAccounts locks several accounts in ID order so concurrent operations
// touching the same pair cannot deadlock.
func lockAccounts(tx *gorm.DB, ids ...string) (map[string]*models.Account, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	out := make(map[string]*models.Account, len(sorted))
	for _, id := range sorted {
		if _, ok := out[id]; ok {
			continue
		}
		acct, err := lockAccount(tx, id)
		if err != nil {
			return nil, err
		}
		out[id] = acct
	}
	return out, nil
}

// move debits from and credits to by amount, journaling the transfer, all
// within the caller's transaction. Both rows must already be locked.
func move(tx *gorm.DB, from, to *models.Account, amount int64, kind models.TransferKind, matchID *string) error {
	if amount < 0 {
		return ErrArithmetic
	}
	if amount == 0 {
		return nil
	}
	if from.Balance < amount {
		return ErrInsufficientBalance
	}

	from.Balance -= amount
	to.Balance += amount

	if err := tx.Model(&models.Account{}).Where("id = ?", from.ID).
		Update("balance", from.Balance).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Account{}).Where("id = ?", to.ID).
		Update("balance", to.Balance).Error; err != nil {
		return err
	}

	journal := models.Transfer{
		ID:      uuid.NewString(),
		FromID:  from.ID,
		ToID:    to.ID,
		Amount:  amount,
		Kind:    kind,
		MatchID: matchID,
	}
	return tx.Create(&journal).Error
}

// --- Handlers ---

// CreateAccount opens a player ledger account for the calling user.
func (s *LedgerService) CreateAccount(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var existing models.Account
	if err := s.DB.First(&existing, "id = ?", userID).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "account already exists"})
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	acct := models.Account{
		ID:   userID,
		Kind: models.AccountKindPlayer,
	}
	if err := s.DB.Create(&acct).Error; err != nil {
		log.Printf("DB Error creating account for %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create account"})
	}

	return c.Status(fiber.StatusCreated).JSON(acct)
}

// GetBalance returns an account's current balance.
func (s *LedgerService) GetBalance(c *fiber.Ctx) error {
	id := c.Params("id")

	var acct models.Account
	if err := s.DB.First(&acct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondError(c, ErrAccountNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{
		"id":      acct.ID,
		"kind":    acct.Kind,
		"balance": acct.Balance,
	})
}

// Deposit credits a player account (admin faucet). Real deposits arrive
// through an external payment rail; this endpoint is the admin escape hatch.
func (s *LedgerService) Deposit(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "deposit amount must be positive"})
	}

	var acct models.Account
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := lockAccount(tx, id)
		if err != nil {
			return err
		}
		if locked.Kind != models.AccountKindPlayer {
			return ErrInvalidPlayer
		}
		locked.Balance += req.Amount
		if err := tx.Model(&models.Account{}).Where("id = ?", locked.ID).
			Update("balance", locked.Balance).Error; err != nil {
			return err
		}
		journal := models.Transfer{
			ID:     uuid.NewString(),
			FromID: locked.ID, // external rail, attributed to the account itself
			ToID:   locked.ID,
			Amount: req.Amount,
			Kind:   models.TransferTypeDeposit,
		}
		if err := tx.Create(&journal).Error; err != nil {
			return err
		}
		acct = *locked
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(acct)
}
