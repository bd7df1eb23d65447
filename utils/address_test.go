package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchAddressDeterministic(t *testing.T) {
	a := MatchAddress("alice", 42, "friday-night")
	b := MatchAddress("alice", 42, "friday-night")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestMatchAddressVariesWithInputs(t *testing.T) {
	base := MatchAddress("alice", 42, "friday-night")

	assert.NotEqual(t, base, MatchAddress("bob", 42, "friday-night"))
	assert.NotEqual(t, base, MatchAddress("alice", 43, "friday-night"))
	assert.NotEqual(t, base, MatchAddress("alice", 42, "saturday-night"))
}

func TestMatchAddressNormalizesCode(t *testing.T) {
	// the human-readable code is slugged before hashing, so cosmetic
	// variants land on the same match
	assert.Equal(t,
		MatchAddress("alice", 1, "Friday Night!"),
		MatchAddress("alice", 1, "friday-night"),
	)
}

func TestVaultAndTreasuryAddresses(t *testing.T) {
	matchID := MatchAddress("alice", 7, "rematch")
	vault := VaultAddress(matchID)

	assert.Len(t, vault, 64)
	assert.NotEqual(t, matchID, vault)
	assert.Equal(t, vault, VaultAddress(matchID))
	assert.NotEqual(t, vault, VaultAddress(matchID+"x"))

	assert.Equal(t, TreasuryAddress(), TreasuryAddress())
	assert.Len(t, TreasuryAddress(), 64)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "friday-night", NormalizeCode("Friday Night!"))
	assert.Equal(t, "rematch-2", NormalizeCode("Rematch #2"))
}
