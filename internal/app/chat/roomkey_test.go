package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDMRoomKey_Commutative(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"zed", "aaron"},
		{"same", "same"},
		{"user_1", "user_2"},
	}

	for _, pair := range pairs {
		assert.Equal(t, DMRoomKey(pair[0], pair[1]), DMRoomKey(pair[1], pair[0]),
			"room key must not depend on argument order")
	}

	assert.Equal(t, "dm_alice_bob", DMRoomKey("bob", "alice"))
}

func TestIsDMRoomKey(t *testing.T) {
	assert.True(t, IsDMRoomKey(DMRoomKey("alice", "bob")))
	assert.False(t, IsDMRoomKey("General"))
	assert.False(t, IsDMRoomKey(""))
}
