package analytics

import (
	"sync"

	"finlearn/core"
)

// LearningMetrics aggregates progression KPIs from the event stream: XP
// awarded, badges earned, lesson and quiz activity, and challenge claims.
type LearningMetrics struct {
	mu sync.RWMutex

	xpAwardedByDay     map[string]int
	xpAwardedTotal     int
	badgesByID         map[core.BadgeID]int
	uniqueBadgeHolders map[core.BadgeID]map[string]struct{}
	lessonsCompleted   map[string]int
	quizzesPassed      int
	quizzesFailed      int
	challengesClaimed  map[string]int
	levelDistribution  map[int]int
}

func NewLearningMetrics() *LearningMetrics {
	return &LearningMetrics{
		xpAwardedByDay:     map[string]int{},
		badgesByID:         map[core.BadgeID]int{},
		uniqueBadgeHolders: map[core.BadgeID]map[string]struct{}{},
		lessonsCompleted:   map[string]int{},
		challengesClaimed:  map[string]int{},
		levelDistribution:  map[int]int{},
	}
}

func (m *LearningMetrics) OnEvent(e core.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Type {
	case core.EventXPAdded:
		if e.XPDelta > 0 {
			m.xpAwardedByDay[dayKey(e.Time)] += e.XPDelta
			m.xpAwardedTotal += e.XPDelta
		}
	case core.EventBadgeEarned:
		m.badgesByID[e.Badge]++
		holders := m.uniqueBadgeHolders[e.Badge]
		if holders == nil {
			holders = map[string]struct{}{}
			m.uniqueBadgeHolders[e.Badge] = holders
		}
		holders[e.UserID] = struct{}{}
	case core.EventLessonCompleted:
		m.lessonsCompleted[e.LessonID]++
	case core.EventQuizSubmitted:
		if passed, ok := e.Metadata["passed"].(bool); ok && passed {
			m.quizzesPassed++
		} else {
			m.quizzesFailed++
		}
	case core.EventChallengeClaimed:
		m.challengesClaimed[e.ChallengeID]++
	case core.EventLevelUp:
		m.levelDistribution[e.Level]++
	}
}

// XPAwarded returns total XP awarded on the given day (YYYY-MM-DD).
func (m *LearningMetrics) XPAwarded(day string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.xpAwardedByDay[day]
}

func (m *LearningMetrics) XPAwardedTotal() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.xpAwardedTotal
}

func (m *LearningMetrics) BadgesEarned(id core.BadgeID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.badgesByID[id]
}

func (m *LearningMetrics) UniqueBadgeHolders(id core.BadgeID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uniqueBadgeHolders[id])
}

func (m *LearningMetrics) LessonCompletions(lessonID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lessonsCompleted[lessonID]
}

// QuizPassRate returns the fraction of submitted quizzes that passed, or 0
// when nothing has been submitted.
func (m *LearningMetrics) QuizPassRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := m.quizzesPassed + m.quizzesFailed
	if total == 0 {
		return 0
	}
	return float64(m.quizzesPassed) / float64(total)
}

func (m *LearningMetrics) ChallengeClaims(challengeID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.challengesClaimed[challengeID]
}

func (m *LearningMetrics) LevelUps(level int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levelDistribution[level]
}

var _ Hook = (*LearningMetrics)(nil)
