package core

import "time"

// ChallengeType tags the activity a challenge counts.
type ChallengeType string

const (
	ChallengeLesson    ChallengeType = "lesson"
	ChallengeQuiz      ChallengeType = "quiz"
	ChallengeSimulator ChallengeType = "simulator"
	ChallengeStreak    ChallengeType = "streak"
)

// ChallengeCadence distinguishes the reset schedule.
type ChallengeCadence string

const (
	CadenceDaily  ChallengeCadence = "daily"
	CadenceWeekly ChallengeCadence = "weekly"
)

// ChallengeInstance is one time-boxed target with a claimable XP reward.
// Completed means the reward was claimed; progress >= target alone only makes
// the instance claimable.
type ChallengeInstance struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      ChallengeType    `json:"type"`
	Cadence   ChallengeCadence `json:"cadence"`
	Target    int              `json:"target"`
	Progress  int              `json:"progress"`
	XPReward  int              `json:"xp_reward"`
	Completed bool             `json:"completed"`
}

// Claimable reports whether the reward can still be claimed.
func (c ChallengeInstance) Claimable() bool {
	return !c.Completed && c.Progress >= c.Target
}

// NewDailyChallenges returns the fixed daily set with zeroed progress.
func NewDailyChallenges() []ChallengeInstance {
	return []ChallengeInstance{
		{ID: "daily-lesson", Name: "Lesson Sprint", Type: ChallengeLesson, Cadence: CadenceDaily, Target: 3, XPReward: 50},
		{ID: "daily-quiz", Name: "Quiz Duo", Type: ChallengeQuiz, Cadence: CadenceDaily, Target: 2, XPReward: 75},
		{ID: "daily-streak", Name: "Show Up", Type: ChallengeStreak, Cadence: CadenceDaily, Target: 1, XPReward: 25},
	}
}

// WeeklyChallenges derives the weekly set from lifetime counters on the
// record, expressed in the same instance model as the daily set. Progress is
// capped at target so a long-lived record never shows over-completion.
func WeeklyChallenges(p Progress) []ChallengeInstance {
	return []ChallengeInstance{
		{
			ID: "weekly-lessons", Name: "Learning Marathon",
			Type: ChallengeLesson, Cadence: CadenceWeekly,
			Target: 10, Progress: minInt(len(p.CompletedLessons), 10), XPReward: 150,
		},
		{
			ID: "weekly-quizzes", Name: "Quiz Champion",
			Type: ChallengeQuiz, Cadence: CadenceWeekly,
			Target: 5, Progress: minInt(len(p.CompletedQuizzes), 5), XPReward: 100,
		},
		{
			ID: "weekly-streak", Name: "Streak Keeper",
			Type: ChallengeStreak, Cadence: CadenceWeekly,
			Target: 7, Progress: minInt(p.Streak, 7), XPReward: 120,
		},
	}
}

// AdvanceChallenges bumps progress on every instance matching the event type.
// Progress clamps at target; claimed instances no longer move.
func AdvanceChallenges(instances []ChallengeInstance, typ ChallengeType, amount int) []ChallengeInstance {
	if amount <= 0 {
		return instances
	}
	out := append([]ChallengeInstance(nil), instances...)
	for i := range out {
		if out[i].Type != typ || out[i].Completed {
			continue
		}
		out[i].Progress = minInt(out[i].Progress+amount, out[i].Target)
	}
	return out
}

// ClaimChallenge marks the instance completed and returns the XP delta.
// Claiming an unmet or already-claimed challenge is a no-op with zero delta.
func ClaimChallenge(instances []ChallengeInstance, id string) ([]ChallengeInstance, int) {
	out := append([]ChallengeInstance(nil), instances...)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		if !out[i].Claimable() {
			return out, 0
		}
		out[i].Completed = true
		return out, out[i].XPReward
	}
	return out, 0
}

// SameResetDay reports whether two instants fall on the same UTC calendar day,
// the daily reset boundary.
func SameResetDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// RefreshDailyChallenges regenerates the daily set when the stored instances
// are from a prior calendar day. Returns the record unchanged otherwise.
func RefreshDailyChallenges(p Progress, now time.Time) Progress {
	if len(p.DailyChallenges) > 0 && SameResetDay(p.ChallengesResetAt, now) {
		return p
	}
	p.DailyChallenges = NewDailyChallenges()
	p.ChallengesResetAt = now.UTC()
	return p
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
