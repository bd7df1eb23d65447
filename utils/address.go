// utils/address.go
package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"github.com/gosimple/slug"
)

// Account addresses are deterministic sha256 digests so the same inputs
// always resolve to the same ledger row. Collisions are the store's problem
// (primary key uniqueness), not ours.

// NormalizeCode slugs the caller-chosen human-readable match code so that
// "My Match!" and "my-match" derive the same address.
func NormalizeCode(code string) string {
	return slug.Make(code)
}

// MatchAddress derives the match record's ID from creator + seed + code.
func MatchAddress(creatorID string, seed uint64, code string) string {
	var seedBytes [8]byte
	binary.LittleEndian.PutUint64(seedBytes[:], seed)

	h := sha256.New()
	h.Write([]byte("match"))
	h.Write(seedBytes[:])
	h.Write([]byte(NormalizeCode(code)))
	h.Write([]byte(creatorID))
	return hex.EncodeToString(h.Sum(nil))
}

// VaultAddress derives the custodial vault account ID for a match.
func VaultAddress(matchID string) string {
	h := sha256.New()
	h.Write([]byte("vault"))
	h.Write([]byte(matchID))
	return hex.EncodeToString(h.Sum(nil))
}

// TreasuryAddress derives the protocol treasury account ID. There is exactly
// one treasury per deployment.
func TreasuryAddress() string {
	h := sha256.New()
	h.Write([]byte("treasury"))
	return hex.EncodeToString(h.Sum(nil))
}
