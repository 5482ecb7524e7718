package core

import "time"

// EventType enumerates domain events.
type EventType string

const (
	EventXPAdded          EventType = "xp_added"
	EventLevelUp          EventType = "level_up"
	EventBadgeEarned      EventType = "badge_earned"
	EventChallengeClaimed EventType = "challenge_claimed"
	EventStreakExtended   EventType = "streak_extended"
	EventLessonCompleted  EventType = "lesson_completed"
	EventQuizSubmitted    EventType = "quiz_submitted"
	EventMonthEnded       EventType = "month_ended"
)

// Event represents an immutable domain event.
type Event struct {
	Type        EventType      `json:"type"`
	Time        time.Time      `json:"time"`
	UserID      string         `json:"user_id"`
	XPDelta     int            `json:"xp_delta,omitempty"`
	XPTotal     int            `json:"xp_total,omitempty"`
	Level       int            `json:"level,omitempty"`
	Badge       BadgeID        `json:"badge,omitempty"`
	ChallengeID string         `json:"challenge_id,omitempty"`
	LessonID    string         `json:"lesson_id,omitempty"`
	Streak      int            `json:"streak,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func NewXPAdded(user string, delta, total int) Event {
	return Event{Type: EventXPAdded, Time: time.Now().UTC(), UserID: user, XPDelta: delta, XPTotal: total}
}

func NewLevelUp(user string, level int) Event {
	return Event{Type: EventLevelUp, Time: time.Now().UTC(), UserID: user, Level: level}
}

func NewBadgeEarned(user string, badge BadgeID) Event {
	return Event{Type: EventBadgeEarned, Time: time.Now().UTC(), UserID: user, Badge: badge}
}

func NewChallengeClaimed(user, challengeID string, reward int) Event {
	return Event{Type: EventChallengeClaimed, Time: time.Now().UTC(), UserID: user, ChallengeID: challengeID, XPDelta: reward}
}

func NewStreakExtended(user string, streak int) Event {
	return Event{Type: EventStreakExtended, Time: time.Now().UTC(), UserID: user, Streak: streak}
}

func NewLessonCompleted(user, lessonID string) Event {
	return Event{Type: EventLessonCompleted, Time: time.Now().UTC(), UserID: user, LessonID: lessonID}
}

func NewQuizSubmitted(user, lessonID string, passed bool) Event {
	return Event{
		Type: EventQuizSubmitted, Time: time.Now().UTC(), UserID: user, LessonID: lessonID,
		Metadata: map[string]any{"passed": passed},
	}
}

func NewMonthEnded(user string, month, xp int) Event {
	return Event{
		Type: EventMonthEnded, Time: time.Now().UTC(), UserID: user, XPDelta: xp,
		Metadata: map[string]any{"month": month},
	}
}
