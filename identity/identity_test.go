package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allanbakerhussmann-crypto/pickleball-app-sub013/models"
)

func TestPoolKey(t *testing.T) {
	assert.Equal(t, "pool-a", PoolKey("Pool A"))
	assert.Equal(t, "pool-a", PoolKey("  Pool   A "))
	assert.Equal(t, "round-robin", PoolKey("Round Robin"))
}

func TestPoolMatchID_OrderInsensitive(t *testing.T) {
	ab := PoolMatchID("summer-open", "pool-a", "alice", "bob")
	ba := PoolMatchID("summer-open", "pool-a", "bob", "alice")
	assert.Equal(t, ab, ba)
	assert.Equal(t, "summer-open_pool-a_alice_bob", ab)
}

func TestBracketMatchID(t *testing.T) {
	assert.Equal(t, "d1_main_pos3", BracketMatchID("d1", models.BracketMain, 3))
	assert.Equal(t, "d1_plate_pos1", BracketMatchID("d1", models.BracketPlate, 1))
}

func TestBronzeMatchID(t *testing.T) {
	assert.Equal(t, "d1_main_third", BronzeMatchID("d1", models.BracketMain))
}

func TestPairSignature_Symmetric(t *testing.T) {
	assert.Equal(t,
		PairSignature("pool-b", "p1", "p2"),
		PairSignature("pool-b", "p2", "p1"))
	assert.NotEqual(t,
		PairSignature("pool-a", "p1", "p2"),
		PairSignature("pool-b", "p1", "p2"))
}
