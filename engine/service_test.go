package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"finlearn/content"
	"finlearn/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage is a minimal in-test Storage; adapter packages carry the real
// implementations and their own tests.
type memStorage struct {
	data    map[core.Slot]core.Progress
	corrupt map[core.Slot]bool
	failing bool
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[core.Slot]core.Progress{}, corrupt: map[core.Slot]bool{}}
}

func (m *memStorage) Load(_ context.Context, slot core.Slot) (core.Progress, error) {
	if m.corrupt[slot] {
		return core.Progress{}, ErrCorruptSnapshot
	}
	p, ok := m.data[slot]
	if !ok {
		return core.Progress{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (m *memStorage) Save(_ context.Context, slot core.Slot, p core.Progress) error {
	if m.failing {
		return errors.New("disk full")
	}
	m.corrupt[slot] = false
	m.data[slot] = p.Clone()
	return nil
}

func newTestService(t *testing.T, store Storage) *ProgressService {
	t.Helper()
	fixed := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc := NewProgressService(store, NewEventBus(DispatchSync), slog.Default(), func() time.Time { return fixed })
	t.Cleanup(svc.Close)
	return svc
}

func TestNoSession(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.GetProgress(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoginAsGuestCreatesFreshRecord(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	p, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)
	assert.True(t, p.Guest)
	assert.Equal(t, 1, p.Level)
	assert.Len(t, p.DailyChallenges, 3)
}

func TestCorruptSnapshotFallsBack(t *testing.T) {
	store := newMemStorage()
	store.corrupt[core.SlotGuest] = true
	svc := newTestService(t, store)

	p, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, p.XP)
	assert.True(t, p.Guest)
}

func TestCompleteLesson(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	var events []core.EventType
	for _, typ := range []core.EventType{core.EventLessonCompleted, core.EventXPAdded, core.EventBadgeEarned} {
		typ := typ
		svc.Subscribe(typ, func(ctx context.Context, e core.Event) { events = append(events, e.Type) })
	}

	p, effects, err := svc.CompleteLesson(context.Background(), "money-basics-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"money-basics-1"}, p.CompletedLessons)
	// 50 lesson XP plus the bronze first-lesson award
	assert.Equal(t, 50+core.BadgeXP(core.BadgeBronze), p.XP)
	require.Len(t, effects.NewBadges, 1)
	assert.Equal(t, core.BadgeID("first-lesson"), effects.NewBadges[0].ID)
	assert.Equal(t, 1, p.Streak)
	assert.Contains(t, events, core.EventLessonCompleted)
	assert.Contains(t, events, core.EventBadgeEarned)

	// lesson challenge advanced, streak challenge advanced
	for _, c := range p.DailyChallenges {
		switch c.ID {
		case "daily-lesson":
			assert.Equal(t, 1, c.Progress)
		case "daily-streak":
			assert.Equal(t, 1, c.Progress)
		}
	}

	// completing again is a no-op
	again, effects2, err := svc.CompleteLesson(context.Background(), "money-basics-1")
	require.NoError(t, err)
	assert.Equal(t, p.XP, again.XP)
	assert.Empty(t, effects2.NewBadges)
}

func TestCompleteLessonUnknownAndLocked(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	_, _, err = svc.CompleteLesson(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownLesson)

	_, _, err = svc.CompleteLesson(context.Background(), "investing-1")
	assert.ErrorIs(t, err, ErrLessonLocked)
}

func TestSubmitQuiz(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	res, p, _, err := svc.SubmitQuiz(context.Background(), "money-basics-1", []int{0, 3, 0})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, content.QuizPassXP, res.XPEarned)
	assert.Equal(t, []string{"money-basics-1"}, p.CompletedQuizzes)
	assert.Equal(t, content.QuizPassXP, p.XP)
	assert.Equal(t, 1, p.Streak)

	// retake grades but does not change state
	res2, p2, effects, err := svc.SubmitQuiz(context.Background(), "money-basics-1", []int{1, 1, 1})
	require.NoError(t, err)
	assert.False(t, res2.Passed)
	assert.Equal(t, p.XP, p2.XP)
	assert.Empty(t, effects.NewBadges)
}

func TestSubmitQuizFailStillRecords(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	res, p, _, err := svc.SubmitQuiz(context.Background(), "money-basics-1", []int{1, 1, 1})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, content.QuizFailXP, p.XP)
	// a failed quiz does not extend the streak
	assert.Equal(t, 0, p.Streak)
	assert.Equal(t, []string{"money-basics-1"}, p.CompletedQuizzes)
}

func TestStreakBadgeEarnedOnceAtThreshold(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewProgressService(newMemStorage(), NewEventBus(DispatchSync), slog.Default(), func() time.Time { return now })
	t.Cleanup(svc.Close)

	var streakEvents []int
	svc.Subscribe(core.EventStreakExtended, func(_ context.Context, e core.Event) {
		streakEvents = append(streakEvents, e.Streak)
	})

	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	// six consecutive days of lessons, then a passed quiz on day seven
	var p core.Progress
	for _, id := range []string{
		"money-basics-1", "money-basics-2", "savings-1",
		"savings-2", "budgeting-1", "investing-1",
	} {
		p, _, err = svc.CompleteLesson(context.Background(), id)
		require.NoError(t, err)
		now = now.AddDate(0, 0, 1)
	}
	require.Equal(t, 6, p.Streak)
	assert.Contains(t, streakEvents, 2)

	_, p, effects, err := svc.SubmitQuiz(context.Background(), "money-basics-1", []int{0, 3, 0})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Streak)
	assert.Contains(t, streakEvents, 7)

	ids := make([]core.BadgeID, 0, len(effects.NewBadges))
	for _, def := range effects.NewBadges {
		ids = append(ids, def.ID)
	}
	assert.Contains(t, ids, core.BadgeID("streak-7"))
	assert.Contains(t, p.Badges, core.BadgeID("streak-7"))

	// later updates never re-report the badge
	now = now.AddDate(0, 0, 1)
	p, effects2, err := svc.AddFriend(context.Background(), "priya")
	require.NoError(t, err)
	for _, def := range effects2.NewBadges {
		assert.NotEqual(t, core.BadgeID("streak-7"), def.ID)
	}
	earned := 0
	for _, b := range p.Badges {
		if b == "streak-7" {
			earned++
		}
	}
	assert.Equal(t, 1, earned)
}

func TestEndMonthOverBudgetRejected(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	before, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	sim := core.NewSimulation()
	_, _, _, _, err = svc.EndMonth(context.Background(), sim, core.Allocation{Spending: 5000, Saving: 3000, Investing: 3000})
	assert.ErrorIs(t, err, core.ErrOverBudget)

	after, err := svc.GetProgress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before.XP, after.XP)
	assert.Equal(t, before.CompletedSimulations, after.CompletedSimulations)
}

func TestEndMonthAwards(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	sim := core.NewSimulation()
	nextSim, res, p, _, err := svc.EndMonth(context.Background(), sim, core.Allocation{Spending: 5000, Saving: 3000, Investing: 2000})
	require.NoError(t, err)
	assert.Equal(t, 2, nextSim.Month)
	assert.Equal(t, 120, res.XPEarned)
	assert.Equal(t, 120, p.XP)
	assert.Equal(t, 1, p.CompletedSimulations)
}

func TestClaimChallenge(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	// meet the quiz challenge target with two distinct quizzes
	_, _, _, err = svc.SubmitQuiz(context.Background(), "money-basics-1", []int{0, 3, 0})
	require.NoError(t, err)
	_, p, _, err := svc.SubmitQuiz(context.Background(), "money-basics-2", []int{1, 2, 1})
	require.NoError(t, err)

	claimable := false
	for _, c := range p.DailyChallenges {
		if c.ID == "daily-quiz" {
			claimable = c.Claimable()
		}
	}
	require.True(t, claimable)

	before := p.XP
	p, _, err = svc.ClaimChallenge(context.Background(), "daily-quiz")
	require.NoError(t, err)
	assert.Equal(t, before+75, p.XP)

	// second claim is a no-op
	p2, _, err := svc.ClaimChallenge(context.Background(), "daily-quiz")
	require.NoError(t, err)
	assert.Equal(t, p.XP, p2.XP)
}

func TestClaimUnmetChallengeNoOp(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	before, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	p, _, err := svc.ClaimChallenge(context.Background(), "daily-lesson")
	require.NoError(t, err)
	assert.Equal(t, before.XP, p.XP)
}

func TestAddFriend(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	for _, f := range []string{"priya", "rahul"} {
		_, _, err = svc.AddFriend(context.Background(), f)
		require.NoError(t, err)
	}
	p, effects, err := svc.AddFriend(context.Background(), "anjali")
	require.NoError(t, err)
	assert.Len(t, p.Friends, 3)
	require.Len(t, effects.NewBadges, 1)
	assert.Equal(t, core.BadgeID("referral-3"), effects.NewBadges[0].ID)

	// duplicates ignored
	p2, _, err := svc.AddFriend(context.Background(), "anjali")
	require.NoError(t, err)
	assert.Len(t, p2.Friends, 3)
}

func TestSaveFailureLogsAndContinues(t *testing.T) {
	store := newMemStorage()
	svc := newTestService(t, store)
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	store.failing = true
	p, _, err := svc.CompleteLesson(context.Background(), "money-basics-1")
	require.NoError(t, err)
	assert.NotZero(t, p.XP)
}

func TestWeeklyChallengesView(t *testing.T) {
	svc := newTestService(t, newMemStorage())
	_, err := svc.LoginAsGuest(context.Background())
	require.NoError(t, err)

	_, _, err = svc.CompleteLesson(context.Background(), "money-basics-1")
	require.NoError(t, err)

	weekly, err := svc.WeeklyChallenges(context.Background())
	require.NoError(t, err)
	require.Len(t, weekly, 3)
	for _, c := range weekly {
		if c.ID == "weekly-lessons" {
			assert.Equal(t, 1, c.Progress)
		}
	}
}
