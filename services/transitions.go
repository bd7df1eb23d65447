// services/transitions.go
//
// The pure half of the escrow state machine: guard validation and payout
// planning, with no database access. escrow_service.go applies the resulting
// plans inside one transaction per operation.
package services

import (
	"chess-escrow-service/models"
)

// payment is one planned vault disbursement.
type payment struct {
	To     string
	Amount int64
	Kind   models.TransferKind
}

// settlementPlan is the full fund movement for a terminal transition.
// conservation: sum(Payments) + Fee == the vault balance the guards required,
// so sweeping the residue after the payments always moves exactly Fee.
type settlementPlan struct {
	Status   models.MatchStatus
	Payments []payment
	Fee      int64
}

// expectedVaultBalance returns what the custody invariant demands for the
// match's current status.
func expectedVaultBalance(m *models.Match) (int64, error) {
	switch m.Status {
	case models.StatusWaiting:
		return m.Stake, nil
	case models.StatusInProgress:
		return checkedMul(m.Stake, 2)
	default:
		// terminal states hold nothing; the vault is already released
		return 0, nil
	}
}

// checkCustody aborts the transition if the vault does not hold exactly what
// the status says it must. A mismatch is corruption, never corrected here.
func checkCustody(m *models.Match, vaultBalance int64) error {
	expected, err := expectedVaultBalance(m)
	if err != nil {
		return err
	}
	if vaultBalance != expected {
		return ErrInvalidVaultBalance
	}
	return nil
}

// validateCreate guards match creation.
func validateCreate(stake int64) error {
	if stake <= 0 {
		return ErrInvalidBetAmount
	}
	return nil
}

// validateAccept guards the Waiting -> InProgress transition.
// The balance check is deliberately strict (> stake, not >=): inherited
// behavior, kept as-is pending a product decision.
func validateAccept(m *models.Match, callerID string, callerBalance int64) error {
	if m.Status != models.StatusWaiting {
		return ErrInvalidMatchStatus
	}
	if callerID == m.CreatorID {
		return ErrSamePlayer
	}
	if callerBalance <= m.Stake {
		return ErrInsufficientBalance
	}
	return nil
}

// cancelPlan validates a cancellation and plans the refunds.
//
// Waiting: only the creator may cancel, full refund. InProgress: either side
// may cancel; the canceller is penalized cancelFeeBps of the stake and the
// other side is refunded in full. Terminal states reject.
func cancelPlan(m *models.Match, callerID string, cancelFeeBps int64) (*settlementPlan, error) {
	switch m.Status {
	case models.StatusWaiting:
		if callerID != m.CreatorID {
			return nil, ErrInvalidPlayer
		}
		return &settlementPlan{
			Status: models.StatusClosed,
			Payments: []payment{
				{To: m.CreatorID, Amount: m.Stake, Kind: models.TransferTypeRefund},
			},
			Fee: 0,
		}, nil

	case models.StatusInProgress:
		if m.OpponentID == nil {
			return nil, ErrInvalidMatchStatus
		}
		opponent := *m.OpponentID
		if opponent == m.CreatorID {
			// corrupt record, refuse to pick a side
			return nil, ErrInvalidPlayer
		}
		var other string
		switch callerID {
		case m.CreatorID:
			other = opponent
		case opponent:
			other = m.CreatorID
		default:
			return nil, ErrInvalidPlayer
		}
		refund, fee, err := CancelPayout(m.Stake, cancelFeeBps)
		if err != nil {
			return nil, err
		}
		return &settlementPlan{
			Status: models.StatusClosed,
			Payments: []payment{
				{To: callerID, Amount: refund, Kind: models.TransferTypeRefund},
				{To: other, Amount: m.Stake, Kind: models.TransferTypeRefund},
			},
			Fee: fee,
		}, nil

	default:
		return nil, ErrInvalidMatchStatus
	}
}

// settlePlan validates settlement of an in-progress match and plans the
// distribution. winnerID nil means a draw.
func settlePlan(m *models.Match, winnerID *string, drawFeeBps int64) (*settlementPlan, error) {
	if m.Status != models.StatusInProgress {
		return nil, ErrInvalidMatchStatus
	}
	if m.OpponentID == nil {
		return nil, ErrInvalidMatchStatus
	}
	opponent := *m.OpponentID

	if winnerID == nil {
		perSide, totalFee, err := DrawPayout(m.Stake, drawFeeBps)
		if err != nil {
			return nil, err
		}
		return &settlementPlan{
			Status: models.StatusDraw,
			Payments: []payment{
				{To: m.CreatorID, Amount: perSide, Kind: models.TransferTypeRefund},
				{To: opponent, Amount: perSide, Kind: models.TransferTypeRefund},
			},
			Fee: totalFee,
		}, nil
	}

	isCreator := *winnerID == m.CreatorID
	isOpponent := *winnerID == opponent
	switch {
	case !isCreator && !isOpponent:
		return nil, ErrInvalidPlayer
	case isCreator && isOpponent:
		// creator == opponent, record is corrupt
		return nil, ErrInvalidWinner
	}

	payout, fee, err := WinnerPayout(m.Stake)
	if err != nil {
		return nil, err
	}
	return &settlementPlan{
		Status: models.StatusCompleted,
		Payments: []payment{
			{To: *winnerID, Amount: payout, Kind: models.TransferTypePayout},
		},
		Fee: fee,
	}, nil
}
