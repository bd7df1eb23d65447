// services/errors.go
package services

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Escrow error kinds. Validation errors are caller mistakes; ErrInvalidVaultBalance
// and ErrArithmetic signal tampering or an internal bug and are alerted distinctly.
var (
	ErrInvalidMatchStatus  = errors.New("match is invalid for this operation, check status")
	ErrInsufficientBalance = errors.New("insufficient balance in player's account")
	ErrInvalidVaultBalance = errors.New("invalid balance in vault account")
	ErrInvalidBetAmount    = errors.New("invalid bet amount")
	ErrInvalidPlayer       = errors.New("this player is not expected here")
	ErrSamePlayer          = errors.New("creator and opponent can't be the same")
	ErrInvalidWinner       = errors.New("winner keys are invalid, maybe players are also invalid")
	ErrArithmetic          = errors.New("arithmetic overflow in fee or payout computation")
	ErrAdminOnly           = errors.New("caller is not the configured authority")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchExists         = errors.New("match address already in use")
	ErrAccountNotFound     = errors.New("account not found")
	ErrConfigMissing       = errors.New("escrow config not initialized")
	ErrConfigExists        = errors.New("escrow config already initialized")
)

// invariantBreach reports whether err indicates corruption rather than
// caller misuse. These are never auto-repaired.
func invariantBreach(err error) bool {
	return errors.Is(err, ErrInvalidVaultBalance) || errors.Is(err, ErrArithmetic)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrMatchNotFound), errors.Is(err, ErrAccountNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrAdminOnly):
		return fiber.StatusForbidden
	case errors.Is(err, ErrConfigExists), errors.Is(err, ErrMatchExists):
		return fiber.StatusConflict
	case errors.Is(err, ErrInvalidVaultBalance), errors.Is(err, ErrArithmetic),
		errors.Is(err, ErrConfigMissing):
		return fiber.StatusInternalServerError
	case errors.Is(err, ErrInvalidMatchStatus), errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrInvalidBetAmount), errors.Is(err, ErrInvalidPlayer),
		errors.Is(err, ErrSamePlayer), errors.Is(err, ErrInvalidWinner):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps an escrow error onto the standard JSON error body.
func respondError(c *fiber.Ctx, err error) error {
	if invariantBreach(err) {
		log.Printf("🚨 [ESCROW] invariant breach on %s: %v", c.Path(), err)
	}
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}
