package social

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlearn/core"
)

func TestRosterSeedOnly(t *testing.T) {
	p := core.NewGuestProgress(time.Now())
	roster := Roster(p)
	require.Len(t, roster, 3)
	assert.Equal(t, "Priya S.", roster[0].Name)
	assert.True(t, roster[0].Online)
	assert.False(t, roster[1].Online)
}

func TestRosterIncludesAddedCodes(t *testing.T) {
	p := core.NewGuestProgress(time.Now())
	p.Friends = []string{"FL89XY12", "FLAB12CD"}

	roster := Roster(p)
	require.Len(t, roster, 5)
	assert.Equal(t, "Sneha T.", roster[3].Name)
	assert.Equal(t, "FLAB12CD", roster[4].Name)
}

func TestSuggestionsExcludeAdded(t *testing.T) {
	p := core.NewGuestProgress(time.Now())

	all := Suggestions(p)
	require.Len(t, all, 2)
	assert.Equal(t, 3, all[0].MutualFriends)

	p.Friends = []string{"fl89xy12"}
	remaining := Suggestions(p)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Rohan G.", remaining[0].Name)
}
