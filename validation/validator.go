// Package validation holds the fail-closed integrity checks run around pool
// and match generation. Hard errors abort the entire batch before anything is
// written; warnings are surfaced for logging but never block.
package validation

import (
	"fmt"
	"strings"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/identity"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

type Result struct {
	Errors   []string
	Warnings []string
}

func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) errf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ValidatePools checks pool integrity before any matches are built: every
// roster participant sits in exactly one pool, no participant ID repeats
// within or across pools, and every pool has a usable name. Empty pools are
// errors; single-participant pools and pools far from the configured target
// size are warnings only.
func ValidatePools(poolSet []*models.Pool, roster []*models.Participant, targetPoolSize int) *Result {
	res := &Result{}

	seen := make(map[string]string) // participant id -> pool key
	for _, pool := range poolSet {
		if strings.TrimSpace(pool.Name) == "" {
			res.errf("pool %d has a blank name", pool.Number)
		}
		if pool.Key == "" {
			res.errf("pool %d (%q) has no normalized key", pool.Number, pool.Name)
		}
		switch pool.Size() {
		case 0:
			res.errf("pool %s is empty", pool.Key)
		case 1:
			res.warnf("pool %s has a single participant; no matches possible", pool.Key)
		}
		if targetPoolSize > 0 && pool.Size() > 0 {
			if diff := pool.Size() - targetPoolSize; diff > 1 || diff < -1 {
				res.warnf("pool %s size %d is far from target %d", pool.Key, pool.Size(), targetPoolSize)
			}
		}
		for _, p := range pool.Participants {
			if prev, dup := seen[p.ID]; dup {
				res.errf("participant %s appears in pool %s and pool %s", p.ID, prev, pool.Key)
				continue
			}
			seen[p.ID] = pool.Key
		}
	}

	for _, p := range roster {
		if _, ok := seen[p.ID]; !ok {
			res.errf("roster participant %s is not assigned to any pool", p.ID)
		}
	}
	return res
}

// ValidateMatches checks match-set integrity before commit. For every
// generated pool match: no self-match, no duplicate normalized pairing, the
// per-pool match count equals n(n-1)/2 per leg, every pairing implied by the
// pool's membership is present, and the required identity fields are carried.
// Any error fails the whole batch; nothing may be written.
func ValidateMatches(divisionID string, poolSet []*models.Pool, matches []*models.Match, legs int) *Result {
	res := &Result{}
	if legs < 1 {
		legs = 1
	}

	poolsByKey := make(map[string]*models.Pool, len(poolSet))
	for _, pool := range poolSet {
		poolsByKey[pool.Key] = pool
	}

	signatures := make(map[string]int)
	perPool := make(map[string]int)

	for _, m := range matches {
		idA, idB := m.SideID(1), m.SideID(2)

		if idA != "" && idA == idB {
			res.errf("match %s pairs participant %s against itself", m.ID, idA)
		}
		if m.DivisionID != divisionID {
			res.errf("match %s carries division %q, want %q", m.ID, m.DivisionID, divisionID)
		}
		if m.Stage != models.StagePool {
			res.errf("match %s has stage %q, want %q", m.ID, m.Stage, models.StagePool)
			continue
		}
		if m.Pool == nil || m.Pool.Key == "" || m.Pool.Group == 0 {
			res.errf("pool match %s is missing its pool identity", m.ID)
			continue
		}
		if idA == "" || idB == "" {
			res.errf("pool match %s has an unset side", m.ID)
			continue
		}

		sig := identity.PairSignature(m.Pool.Key, idA, idB)
		signatures[sig]++
		if signatures[sig] > legs {
			res.errf("duplicate pairing %s vs %s in pool %s", idA, idB, m.Pool.Key)
		}
		perPool[m.Pool.Key]++
	}

	for key, pool := range poolsByKey {
		n := pool.Size()
		if n < 2 {
			continue
		}
		expected := n * (n - 1) / 2 * legs
		if got := perPool[key]; got != expected {
			res.errf("pool %s has %d matches, expected %d for %d participants", key, got, expected, n)
		}

		// completeness: every unordered membership pair must appear
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				sig := identity.PairSignature(key, pool.Participants[i].ID, pool.Participants[j].ID)
				if signatures[sig] == 0 {
					res.errf("pool %s is missing the pairing %s vs %s",
						key, pool.Participants[i].ID, pool.Participants[j].ID)
				}
			}
		}
	}
	return res
}

// ValidateBracketMatches runs the stage-appropriate subset of the integrity
// checks over a generated bracket: no self-matches, required identity fields,
// and intact advancement pointers.
func ValidateBracketMatches(divisionID string, matches []*models.Match) *Result {
	res := &Result{}
	byID := make(map[string]bool, len(matches))
	for _, m := range matches {
		byID[m.ID] = true
	}
	for _, m := range matches {
		idA, idB := m.SideID(1), m.SideID(2)
		if idA != "" && idA == idB {
			res.errf("match %s pairs participant %s against itself", m.ID, idA)
		}
		if m.DivisionID != divisionID {
			res.errf("match %s carries division %q, want %q", m.ID, m.DivisionID, divisionID)
		}
		if m.Bracket == nil || m.Bracket.Position == 0 {
			res.errf("bracket match %s is missing its bracket position", m.ID)
			continue
		}
		if m.Bracket.NextMatchID != nil && !byID[*m.Bracket.NextMatchID] {
			res.errf("bracket match %s advances into unknown match %s", m.ID, *m.Bracket.NextMatchID)
		}
		if m.Bracket.LoserNextMatchID != nil && !byID[*m.Bracket.LoserNextMatchID] {
			res.errf("bracket match %s sends its loser into unknown match %s", m.ID, *m.Bracket.LoserNextMatchID)
		}
	}
	return res
}
