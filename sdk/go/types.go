package sdk

import (
	"errors"
	"fmt"

	"finlearn/core"
)

// Mutation is the standard response for state-changing calls.
type Mutation struct {
	Progress core.Progress    `json:"progress"`
	Effects  core.SideEffects `json:"effects"`
}

// LessonRow is a catalog entry annotated with the learner's state.
type LessonRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	XP          int    `json:"xp"`
	Duration    string `json:"duration"`
	MinLevel    int    `json:"min_level,omitempty"`
	Unlocked    bool   `json:"unlocked"`
	Completed   bool   `json:"completed"`
}

// QuizQuestion is one question as served to clients, answer key omitted.
type QuizQuestion struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// QuizResult summarizes a graded attempt.
type QuizResult struct {
	LessonID string `json:"lesson_id"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
	Passed   bool   `json:"passed"`
	XPEarned int    `json:"xp_earned"`
}

// QuizOutcome is the response to a quiz submission.
type QuizOutcome struct {
	Result   QuizResult       `json:"result"`
	Progress core.Progress    `json:"progress"`
	Effects  core.SideEffects `json:"effects"`
}

// SimOutcome is the response to a simulator month.
type SimOutcome struct {
	Simulation core.Simulation  `json:"simulation"`
	Result     core.MonthResult `json:"result"`
	Progress   core.Progress    `json:"progress"`
	Effects    core.SideEffects `json:"effects"`
}

// Ranking is one leaderboard row.
type Ranking struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
	Badges int    `json:"badges"`
	You    bool   `json:"you,omitempty"`
}

// Friend is one roster row.
type Friend struct {
	Name   string `json:"name"`
	Code   string `json:"code,omitempty"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
	Online bool   `json:"online"`
}

// Suggestion is one suggested connection.
type Suggestion struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	MutualFriends int    `json:"mutual_friends"`
}

// FriendsPage is the /friends response.
type FriendsPage struct {
	Friends     []Friend     `json:"friends"`
	Suggestions []Suggestion `json:"suggestions"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string `json:"status"`
}

// APIError is a structured error response from the server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// ErrEmptyUserID is returned when user id is empty.
var ErrEmptyUserID = errors.New("user id is required")
