package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinnerPayoutTiers(t *testing.T) {
	cases := []struct {
		name    string
		stake   int64
		wantBps int64
	}{
		{"tiny stake", 1, WinFeeBpsSmall},
		{"half unit", UnitSize / 2, WinFeeBpsSmall},
		{"exactly one unit", UnitSize, WinFeeBpsSmall},
		{"just above one unit", UnitSize + 1, WinFeeBpsMedium},
		{"three units", 3 * UnitSize, WinFeeBpsMedium},
		{"exactly five units", 5 * UnitSize, WinFeeBpsMedium},
		{"just above five units", 5*UnitSize + 1, WinFeeBpsLarge},
		{"ten units", 10 * UnitSize, WinFeeBpsLarge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payout, fee, err := WinnerPayout(tc.stake)
			require.NoError(t, err)

			pot := 2 * tc.stake
			wantFee := pot * tc.wantBps / BpsDenominator

			assert.Equal(t, wantFee, fee)
			assert.Equal(t, pot-wantFee, payout)
			assert.Equal(t, pot, payout+fee, "payout plus fee must equal the pot exactly")
		})
	}
}

func TestWinnerPayoutConcreteExample(t *testing.T) {
	// stake 1,000,000 base units sits in the smallest tier:
	// pot 2,000,000 -> fee 0.5% = 10,000 -> payout 1,990,000
	payout, fee, err := WinnerPayout(1_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(10_000), fee)
	assert.Equal(t, int64(1_990_000), payout)
}

func TestWinnerPayoutRejectsNonPositiveStake(t *testing.T) {
	for _, stake := range []int64{0, -1, -UnitSize} {
		_, _, err := WinnerPayout(stake)
		assert.ErrorIs(t, err, ErrInvalidBetAmount, "stake %d", stake)
	}
}

func TestWinnerPayoutOverflow(t *testing.T) {
	_, _, err := WinnerPayout(math.MaxInt64/2 + 1)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, _, err = WinnerPayout(math.MaxInt64)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestDrawPayout(t *testing.T) {
	cases := []struct {
		name         string
		stake        int64
		wantPerSide  int64
		wantTotalFee int64
	}{
		{"round hundred", 100, 99, 2},
		{"truncates below a percent", 50, 50, 0},
		{"large stake", 1_000_000_000, 990_000_000, 20_000_000},
		{"odd stake", 10_001, 9_901, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			perSide, totalFee, err := DrawPayout(tc.stake, DefaultDrawFeeBps)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPerSide, perSide)
			assert.Equal(t, tc.wantTotalFee, totalFee)
			assert.Equal(t, 2*tc.stake, 2*perSide+totalFee, "draw must conserve the pot")
		})
	}
}

func TestDrawPayoutRejectsNonPositiveStake(t *testing.T) {
	_, _, err := DrawPayout(0, DefaultDrawFeeBps)
	assert.ErrorIs(t, err, ErrInvalidBetAmount)
}

func TestCancelPayout(t *testing.T) {
	refund, fee, err := CancelPayout(100, DefaultCancelFeeBps)
	require.NoError(t, err)
	assert.Equal(t, int64(99), refund)
	assert.Equal(t, int64(1), fee)

	refund, fee, err = CancelPayout(1_000_000, DefaultCancelFeeBps)
	require.NoError(t, err)
	assert.Equal(t, int64(990_000), refund)
	assert.Equal(t, int64(10_000), fee)
	assert.Equal(t, int64(1_000_000), refund+fee)
}

func TestCheckedArithmetic(t *testing.T) {
	v, err := checkedMul(3, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)

	_, err = checkedMul(math.MaxInt64, 2)
	assert.ErrorIs(t, err, ErrArithmetic)

	_, err = checkedMul(-1, 2)
	assert.ErrorIs(t, err, ErrArithmetic)

	v, err = checkedSub(10, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)

	_, err = checkedSub(4, 10)
	assert.ErrorIs(t, err, ErrArithmetic)
}

func TestConservationAcrossStakes(t *testing.T) {
	stakes := []int64{1, 7, 99, 100, 101, 12_345, 1_000_000,
		UnitSize - 1, UnitSize, UnitSize + 1, 5 * UnitSize, 5*UnitSize + 1, 42 * UnitSize}

	for _, stake := range stakes {
		payout, fee, err := WinnerPayout(stake)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, 2*stake, payout+fee, "win conservation at stake %d", stake)

		perSide, totalFee, err := DrawPayout(stake, DefaultDrawFeeBps)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, 2*stake, 2*perSide+totalFee, "draw conservation at stake %d", stake)

		refund, cancelFee, err := CancelPayout(stake, DefaultCancelFeeBps)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, stake, refund+cancelFee, "cancel conservation at stake %d", stake)
	}
}
