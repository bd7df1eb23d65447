package services

import (
	"testing"

	"chess-escrow-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"
)

func waitingMatch(stake int64) *models.Match {
	return &models.Match{
		ID:        "m1",
		Stake:     stake,
		CreatorID: alice,
		Status:    models.StatusWaiting,
		VaultID:   "v1",
	}
}

func inProgressMatch(stake int64) *models.Match {
	opponent := bob
	m := waitingMatch(stake)
	m.OpponentID = &opponent
	m.Status = models.StatusInProgress
	return m
}

func paymentsTo(plan *settlementPlan) map[string]int64 {
	out := map[string]int64{}
	for _, p := range plan.Payments {
		out[p.To] += p.Amount
	}
	return out
}

func planTotal(plan *settlementPlan) int64 {
	total := plan.Fee
	for _, p := range plan.Payments {
		total += p.Amount
	}
	return total
}

func TestValidateCreate(t *testing.T) {
	assert.NoError(t, validateCreate(1))
	assert.ErrorIs(t, validateCreate(0), ErrInvalidBetAmount)
	assert.ErrorIs(t, validateCreate(-100), ErrInvalidBetAmount)
}

func TestValidateAccept(t *testing.T) {
	m := waitingMatch(100)

	// the balance check is strictly greater-than: holding exactly the
	// stake is not enough
	assert.ErrorIs(t, validateAccept(m, bob, 100), ErrInsufficientBalance)
	assert.NoError(t, validateAccept(m, bob, 101))

	assert.ErrorIs(t, validateAccept(m, alice, 1_000), ErrSamePlayer)

	inProgress := inProgressMatch(100)
	assert.ErrorIs(t, validateAccept(inProgress, carol, 1_000), ErrInvalidMatchStatus)
}

func TestExpectedVaultBalance(t *testing.T) {
	m := waitingMatch(250)
	got, err := expectedVaultBalance(m)
	require.NoError(t, err)
	assert.Equal(t, int64(250), got)

	m = inProgressMatch(250)
	got, err = expectedVaultBalance(m)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got)

	m.Status = models.StatusCompleted
	got, err = expectedVaultBalance(m)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestCheckCustody(t *testing.T) {
	m := inProgressMatch(100)
	assert.NoError(t, checkCustody(m, 200))
	assert.ErrorIs(t, checkCustody(m, 199), ErrInvalidVaultBalance)
	assert.ErrorIs(t, checkCustody(m, 201), ErrInvalidVaultBalance)
	assert.ErrorIs(t, checkCustody(m, 0), ErrInvalidVaultBalance)
}

func TestCancelPlanWaiting(t *testing.T) {
	m := waitingMatch(100)

	plan, err := cancelPlan(m, alice, DefaultCancelFeeBps)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, plan.Status)
	assert.Equal(t, int64(0), plan.Fee)
	assert.Equal(t, map[string]int64{alice: 100}, paymentsTo(plan))

	// only the creator may walk away from a waiting match
	_, err = cancelPlan(m, bob, DefaultCancelFeeBps)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestCancelPlanInProgressAsymmetry(t *testing.T) {
	m := inProgressMatch(1_000)

	// creator cancels: creator is penalized, opponent made whole
	plan, err := cancelPlan(m, alice, DefaultCancelFeeBps)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{alice: 990, bob: 1_000}, paymentsTo(plan))
	assert.Equal(t, int64(10), plan.Fee)
	assert.Equal(t, int64(2_000), planTotal(plan))

	// opponent cancels: roles swap exactly
	plan, err = cancelPlan(m, bob, DefaultCancelFeeBps)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{bob: 990, alice: 1_000}, paymentsTo(plan))
	assert.Equal(t, int64(10), plan.Fee)
	assert.Equal(t, int64(2_000), planTotal(plan))
}

func TestCancelPlanRejectsThirdParty(t *testing.T) {
	m := inProgressMatch(100)
	_, err := cancelPlan(m, carol, DefaultCancelFeeBps)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestCancelPlanRejectsCorruptRecord(t *testing.T) {
	m := inProgressMatch(100)
	same := alice
	m.OpponentID = &same
	_, err := cancelPlan(m, alice, DefaultCancelFeeBps)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestCancelPlanRejectsTerminal(t *testing.T) {
	for _, status := range []models.MatchStatus{models.StatusCompleted, models.StatusDraw, models.StatusClosed} {
		m := inProgressMatch(100)
		m.Status = status
		_, err := cancelPlan(m, alice, DefaultCancelFeeBps)
		assert.ErrorIs(t, err, ErrInvalidMatchStatus, "status %s", status)
	}
}

func TestSettlePlanWinner(t *testing.T) {
	m := inProgressMatch(100)
	winner := alice

	plan, err := settlePlan(m, &winner, DefaultDrawFeeBps)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, plan.Status)

	// stake 100 is in the smallest tier: fee = 200 * 50 / 10000 = 1
	assert.Equal(t, map[string]int64{alice: 199}, paymentsTo(plan))
	assert.Equal(t, int64(1), plan.Fee)
	assert.Equal(t, int64(200), planTotal(plan))
}

func TestSettlePlanWinnerOpponent(t *testing.T) {
	m := inProgressMatch(100)
	winner := bob

	plan, err := settlePlan(m, &winner, DefaultDrawFeeBps)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{bob: 199}, paymentsTo(plan))
}

func TestSettlePlanDraw(t *testing.T) {
	m := inProgressMatch(1_000)

	plan, err := settlePlan(m, nil, DefaultDrawFeeBps)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraw, plan.Status)
	assert.Equal(t, map[string]int64{alice: 990, bob: 990}, paymentsTo(plan))
	assert.Equal(t, int64(20), plan.Fee)
	assert.Equal(t, int64(2_000), planTotal(plan))
}

func TestSettlePlanRejectsWaiting(t *testing.T) {
	m := waitingMatch(100)
	winner := alice
	_, err := settlePlan(m, &winner, DefaultDrawFeeBps)
	assert.ErrorIs(t, err, ErrInvalidMatchStatus)

	_, err = settlePlan(m, nil, DefaultDrawFeeBps)
	assert.ErrorIs(t, err, ErrInvalidMatchStatus)
}

func TestSettlePlanWinnerResolution(t *testing.T) {
	m := inProgressMatch(100)

	// outsider: not a recognized party
	outsider := carol
	_, err := settlePlan(m, &outsider, DefaultDrawFeeBps)
	assert.ErrorIs(t, err, ErrInvalidPlayer)

	// creator == opponent: winner resolves to both sides at once
	same := alice
	m.OpponentID = &same
	winner := alice
	_, err = settlePlan(m, &winner, DefaultDrawFeeBps)
	assert.ErrorIs(t, err, ErrInvalidWinner)
}

func TestPlanConservation(t *testing.T) {
	stakes := []int64{1, 3, 99, 100, 101, 9_999, 123_456,
		UnitSize, UnitSize + 1, 5 * UnitSize, 7 * UnitSize}

	for _, stake := range stakes {
		m := inProgressMatch(stake)
		winner := alice

		plan, err := settlePlan(m, &winner, DefaultDrawFeeBps)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, 2*stake, planTotal(plan), "win settlement must drain the vault exactly, stake %d", stake)

		plan, err = settlePlan(m, nil, DefaultDrawFeeBps)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, 2*stake, planTotal(plan), "draw settlement must drain the vault exactly, stake %d", stake)

		plan, err = cancelPlan(m, bob, DefaultCancelFeeBps)
		require.NoError(t, err, "stake %d", stake)
		assert.Equal(t, 2*stake, planTotal(plan), "cancellation must drain the vault exactly, stake %d", stake)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	assert.Equal(t, 404, errorStatus(ErrMatchNotFound))
	assert.Equal(t, 404, errorStatus(ErrAccountNotFound))
	assert.Equal(t, 403, errorStatus(ErrAdminOnly))
	assert.Equal(t, 409, errorStatus(ErrConfigExists))
	assert.Equal(t, 400, errorStatus(ErrInvalidMatchStatus))
	assert.Equal(t, 400, errorStatus(ErrSamePlayer))
	assert.Equal(t, 400, errorStatus(ErrInsufficientBalance))
	assert.Equal(t, 500, errorStatus(ErrInvalidVaultBalance))
	assert.Equal(t, 500, errorStatus(ErrArithmetic))

	assert.True(t, invariantBreach(ErrInvalidVaultBalance))
	assert.True(t, invariantBreach(ErrArithmetic))
	assert.False(t, invariantBreach(ErrInvalidPlayer))
}
