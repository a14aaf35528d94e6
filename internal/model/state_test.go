package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateKnows(t *testing.T) {
	s := NewState()
	assert.False(t, s.Knows("abc"))

	s.Remember("abc")
	assert.True(t, s.Knows("abc"))
	assert.False(t, s.Knows("def"))
}

func TestStateRememberTracksDaily(t *testing.T) {
	s := NewState()
	s.Remember("id1")
	s.Remember("id2")
	s.Remember("id1") // duplicate

	assert.Equal(t, []string{"id1", "id2"}, s.KnownIdentities)
	assert.Equal(t, []string{"id1", "id2"}, s.DailyEmitted)
}

func TestStateRememberEvictsOldest(t *testing.T) {
	s := NewState()
	for i := 0; i < KnownIdentityCap+10; i++ {
		s.Remember(fmt.Sprintf("id-%04d", i))
	}

	assert.Len(t, s.KnownIdentities, KnownIdentityCap)
	// Oldest evicted first.
	assert.False(t, s.Knows("id-0000"))
	assert.False(t, s.Knows("id-0009"))
	assert.True(t, s.Knows("id-0010"))
	assert.True(t, s.Knows(fmt.Sprintf("id-%04d", KnownIdentityCap+9)))
}

func TestStateResetDaily(t *testing.T) {
	s := NewState()
	s.Remember("id1")
	s.ResetDaily()

	assert.Empty(t, s.DailyEmitted)
	// Long-lived set is untouched.
	assert.True(t, s.Knows("id1"))
}

func TestTierRankOrdering(t *testing.T) {
	tiers := AllTiers()
	for i := 1; i < len(tiers); i++ {
		assert.Greater(t, tiers[i].Rank(), tiers[i-1].Rank(),
			"tier %s should outrank %s", tiers[i], tiers[i-1])
	}
}
