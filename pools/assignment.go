// Package pools implements the pool engine: snake-draft pool assignment,
// pool-stage round-robin generation, standings computation and the cross-pool
// qualifier selection that feeds the medal and plate brackets.
package pools

import (
	"errors"
	"fmt"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/brackets"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/identity"
	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

var ErrInvalidPoolSize = errors.New("pool size must be at least 2")

// AssignPools seeds the full roster by rating and distributes seeds to
// ceil(n/poolSize) pools by snake draft (0,1,...,P-1,P-1,...,1,0,...), so
// strength is balanced across pools instead of the top seeds all landing in
// pool one.
func AssignPools(participants []*models.Participant, poolSize int) ([]*models.Pool, error) {
	if poolSize < 2 {
		return nil, ErrInvalidPoolSize
	}
	if len(participants) == 0 {
		return nil, nil
	}

	seeded := brackets.SeedParticipants(participants, false)
	poolCount := (len(seeded) + poolSize - 1) / poolSize

	pools := make([]*models.Pool, poolCount)
	for i := range pools {
		name := poolName(i)
		pools[i] = &models.Pool{
			Number: i + 1,
			Name:   name,
			Key:    identity.PoolKey(name),
		}
	}

	idx, forward := 0, true
	for _, p := range seeded {
		pools[idx].Participants = append(pools[idx].Participants, p)
		if forward {
			if idx == poolCount-1 {
				forward = false
			} else {
				idx++
			}
		} else {
			if idx == 0 {
				forward = true
			} else {
				idx--
			}
		}
	}
	return pools, nil
}

func poolName(i int) string {
	if i < 26 {
		return fmt.Sprintf("Pool %c", 'A'+i)
	}
	return fmt.Sprintf("Pool %d", i+1)
}
