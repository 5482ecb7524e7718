package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finlearn/core"
)

func TestStandingsMergesPlayer(t *testing.T) {
	board := NewSeededBoard()

	p := core.NewGuestProgress(time.Now())
	p.XP = 700
	p.Level = core.LevelForXP(p.XP)
	p.Streak = 3
	p.Badges = []core.BadgeID{"first-lesson"}

	rows := Standings(board, p)
	require.Len(t, rows, 9)

	assert.Equal(t, "Priya S.", rows[0].Name)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "Rahul K.", rows[1].Name)

	// 700 XP slots between Rahul (720) and Anjali (680)
	assert.True(t, rows[2].You)
	assert.Equal(t, "You", rows[2].Name)
	assert.Equal(t, 3, rows[2].Rank)
	assert.Equal(t, "Anjali M.", rows[3].Name)
}

func TestStandingsTiesShareRank(t *testing.T) {
	board := NewSeededBoard()

	p := core.NewGuestProgress(time.Now())
	p.XP = 720 // ties Rahul K.
	p.Level = core.LevelForXP(p.XP)

	rows := Standings(board, p)
	require.Len(t, rows, 9)

	assert.Equal(t, 2, rows[1].Rank)
	assert.Equal(t, 2, rows[2].Rank)
	assert.Equal(t, 4, rows[3].Rank)
}

func TestStandingsDoesNotMutateBoard(t *testing.T) {
	board := NewSeededBoard()
	p := core.NewGuestProgress(time.Now())
	p.XP = 9999

	_ = Standings(board, p)
	_, ok := board.Get("you")
	assert.False(t, ok)
	assert.Len(t, board.TopN(100), len(SeedEntries()))
}

func TestStandingsAccountReplacesSeedWithSameID(t *testing.T) {
	board := NewSeededBoard()

	p := core.NewAccountProgress("priya-s", time.Now())
	p.XP = 10
	p.Level = 1

	rows := Standings(board, p)
	require.Len(t, rows, 8)
	assert.True(t, rows[len(rows)-1].You)
}
