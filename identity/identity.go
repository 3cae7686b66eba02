// Package identity derives the canonical, deterministic identifiers used for
// generated matches. Regeneration produces the same IDs for the same inputs,
// which makes every write an idempotent overwrite instead of a duplicate
// insert.
package identity

import (
	"fmt"

	"github.com/gosimple/slug"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

const bronzeSuffix = "third"

// PoolKey normalizes a display pool name ("Pool A") into its stable
// lower-kebab identity form ("pool-a"). The key never changes once a
// generation has committed, even if the display name is edited.
func PoolKey(name string) string {
	return slug.Make(name)
}

// PoolMatchID derives a pool match ID from the division, the normalized pool
// key and the two participant IDs sorted lexicographically, so "A vs B" and
// "B vs A" always yield the same ID.
func PoolMatchID(divisionID, poolKey, idA, idB string) string {
	lo, hi := idA, idB
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s_%s_%s_%s", divisionID, poolKey, lo, hi)
}

// BracketMatchID derives a bracket match ID from the division, bracket type
// and the match's stable bracket position. Participants are deliberately not
// part of the ID: the occupants of a bracket slot change as winners advance.
func BracketMatchID(divisionID string, bracketType models.BracketType, position int) string {
	return fmt.Sprintf("%s_%s_pos%d", divisionID, bracketType, position)
}

// BronzeMatchID is the fixed-suffix ID of the third-place match.
func BronzeMatchID(divisionID string, bracketType models.BracketType) string {
	return fmt.Sprintf("%s_%s_%s", divisionID, bracketType, bronzeSuffix)
}

// PairSignature is the normalized (poolKey, unordered participant pair)
// identity the validator uses to detect duplicate pairings.
func PairSignature(poolKey, idA, idB string) string {
	lo, hi := idA, idB
	if hi < lo {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("%s|%s|%s", poolKey, lo, hi)
}
