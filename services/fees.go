// services/fees.go
package services

import "math"

// All money is int64 base units; UnitSize base units make one display unit.
// Fee rates are basis points with truncating division — no floats anywhere
// near a balance.
const (
	UnitSize       int64 = 1_000_000_000
	BpsDenominator int64 = 10_000

	// Tiered fee on the total pot for a decisive outcome, keyed on the
	// per-side stake.
	WinFeeBpsSmall  int64 = 50  // stake <= 1 unit
	WinFeeBpsMedium int64 = 100 // 1 unit < stake <= 5 units
	WinFeeBpsLarge  int64 = 150 // stake > 5 units

	// Policy defaults, copied into the config row at bootstrap so they can
	// be tuned per deployment. The cancel fee is the anti-griefing penalty:
	// the canceller pays it, the other side is made whole.
	DefaultDrawFeeBps      int64 = 100
	DefaultCancelFeeBps    int64 = 100
	DefaultTreasuryReserve int64 = 1_000_000
)

// winFeeBps returns the pot fee rate for a given per-side stake.
func winFeeBps(stake int64) (int64, error) {
	switch {
	case stake <= 0:
		return 0, ErrInvalidBetAmount
	case stake <= UnitSize:
		return WinFeeBpsSmall, nil
	case stake <= 5*UnitSize:
		return WinFeeBpsMedium, nil
	default:
		return WinFeeBpsLarge, nil
	}
}

// feeOf computes amount*bps/10000 with overflow checks.
func feeOf(amount, bps int64) (int64, error) {
	scaled, err := checkedMul(amount, bps)
	if err != nil {
		return 0, err
	}
	return scaled / BpsDenominator, nil
}

// WinnerPayout returns the winner's payout and the retained fee for a
// decisive outcome: pot = 2*stake, fee = tiered bps of pot.
func WinnerPayout(stake int64) (payout, fee int64, err error) {
	bps, err := winFeeBps(stake)
	if err != nil {
		return 0, 0, err
	}
	pot, err := checkedMul(stake, 2)
	if err != nil {
		return 0, 0, err
	}
	fee, err = feeOf(pot, bps)
	if err != nil {
		return 0, 0, err
	}
	payout, err = checkedSub(pot, fee)
	if err != nil {
		return 0, 0, err
	}
	return payout, fee, nil
}

// DrawPayout returns each side's refund and the total retained fee for a
// draw: each side gets stake minus the flat draw fee.
func DrawPayout(stake, drawFeeBps int64) (perSide, totalFee int64, err error) {
	if stake <= 0 {
		return 0, 0, ErrInvalidBetAmount
	}
	sideFee, err := feeOf(stake, drawFeeBps)
	if err != nil {
		return 0, 0, err
	}
	perSide, err = checkedSub(stake, sideFee)
	if err != nil {
		return 0, 0, err
	}
	totalFee, err = checkedMul(sideFee, 2)
	if err != nil {
		return 0, 0, err
	}
	return perSide, totalFee, nil
}

// CancelPayout returns the canceller's refund and the retained fee for an
// in-progress cancellation. The non-cancelling side's refund is the full
// stake and is not computed here.
func CancelPayout(stake, cancelFeeBps int64) (cancellerRefund, fee int64, err error) {
	if stake <= 0 {
		return 0, 0, ErrInvalidBetAmount
	}
	fee, err = feeOf(stake, cancelFeeBps)
	if err != nil {
		return 0, 0, err
	}
	cancellerRefund, err = checkedSub(stake, fee)
	if err != nil {
		return 0, 0, err
	}
	return cancellerRefund, fee, nil
}

// checkedMul multiplies two non-negative amounts, failing on overflow
// instead of wrapping.
func checkedMul(a, b int64) (int64, error) {
	if a < 0 || b < 0 {
		return 0, ErrArithmetic
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, ErrArithmetic
	}
	return a * b, nil
}

// checkedSub subtracts b from a, failing on underflow below zero.
func checkedSub(a, b int64) (int64, error) {
	if b > a {
		return 0, ErrArithmetic
	}
	return a - b, nil
}
