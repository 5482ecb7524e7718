package core

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"
)

// Slot names the persistence slot a progress snapshot lives under.
// The app keeps one snapshot for an authenticated session and one for the
// anonymous/guest session; whichever is active is the sole snapshot loaded.
type Slot string

const (
	SlotAccount Slot = "finlearn-user"
	SlotGuest   Slot = "finlearn-guest-progress"
)

// BadgeID names a badge in the static registry.
type BadgeID string

// Tier is a coarse cosmetic band of levels.
type Tier string

const (
	TierBeginner Tier = "beginner"
	TierSaver    Tier = "saver"
	TierInvestor Tier = "investor"
	TierExpert   Tier = "expert"
)

// BadgeTier grades a badge, independent of level tiers.
type BadgeTier string

const (
	BadgeBronze   BadgeTier = "bronze"
	BadgeSilver   BadgeTier = "silver"
	BadgeGold     BadgeTier = "gold"
	BadgePlatinum BadgeTier = "platinum"
)

// Achievement is one entry in the append-only earned-badge log.
type Achievement struct {
	BadgeID  BadgeID   `json:"badge_id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earned_at"`
	XP       int       `json:"xp"`
}

// Progress is the canonical per-user state. It is a value type; mutators
// return updated copies and callers own the single live instance.
type Progress struct {
	UserID               string              `json:"user_id"`
	Guest                bool                `json:"guest"`
	XP                   int                 `json:"xp"`
	Level                int                 `json:"level"`
	Streak               int                 `json:"streak"`
	CompletedLessons     []string            `json:"completed_lessons"`
	CompletedQuizzes     []string            `json:"completed_quizzes"`
	CompletedSimulations int                 `json:"completed_simulations"`
	Badges               []BadgeID           `json:"badges"`
	Achievements         []Achievement       `json:"achievements"`
	Friends              []string            `json:"friends"`
	ReferralCode         string              `json:"referral_code"`
	DailyChallenges      []ChallengeInstance `json:"daily_challenges"`
	ChallengesResetAt    time.Time           `json:"challenges_reset_at"`
	LastActive           time.Time           `json:"last_active"`
}

// NewGuestProgress returns a fresh anonymous record with the daily challenge
// set already generated.
func NewGuestProgress(now time.Time) Progress {
	return Progress{
		UserID:            "guest",
		Guest:             true,
		Level:             1,
		CompletedLessons:  []string{},
		CompletedQuizzes:  []string{},
		Badges:            []BadgeID{},
		Achievements:      []Achievement{},
		Friends:           []string{},
		ReferralCode:      NewReferralCode(),
		DailyChallenges:   NewDailyChallenges(),
		ChallengesResetAt: now.UTC(),
		LastActive:        now.UTC(),
	}
}

// NewAccountProgress returns a fresh record for an authenticated user.
func NewAccountProgress(userID string, now time.Time) Progress {
	p := NewGuestProgress(now)
	p.UserID = userID
	p.Guest = false
	return p
}

// Clone returns a deep copy so callers can diff before/after snapshots.
func (p Progress) Clone() Progress {
	cp := p
	cp.CompletedLessons = append([]string(nil), p.CompletedLessons...)
	cp.CompletedQuizzes = append([]string(nil), p.CompletedQuizzes...)
	cp.Badges = append([]BadgeID(nil), p.Badges...)
	cp.Achievements = append([]Achievement(nil), p.Achievements...)
	cp.Friends = append([]string(nil), p.Friends...)
	cp.DailyChallenges = append([]ChallengeInstance(nil), p.DailyChallenges...)
	return cp
}

// HasBadge reports whether the badge id is already persisted as earned.
func (p Progress) HasBadge(id BadgeID) bool {
	for _, b := range p.Badges {
		if b == id {
			return true
		}
	}
	return false
}

// HasLesson reports whether the lesson id is recorded as completed.
func (p Progress) HasLesson(id string) bool { return containsString(p.CompletedLessons, id) }

// HasQuiz reports whether the quiz for the lesson id was already taken.
func (p Progress) HasQuiz(id string) bool { return containsString(p.CompletedQuizzes, id) }

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// NormalizeUserID trims and lowercases user identifiers.
func NormalizeUserID(id string) (string, error) {
	s := strings.TrimSpace(id)
	if s == "" {
		return "", errors.New("empty user id")
	}
	return strings.ToLower(s), nil
}

// ValidateBadgeID ensures non-empty badge id with simple charset check.
func ValidateBadgeID(b BadgeID) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return errors.New("empty badge id")
	}
	// simple check: alnum, dash, underscore
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return errors.New("invalid badge id")
	}
	return nil
}

const referralAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReferralCode generates a share code of the form FL followed by six
// characters from an unambiguous alphabet.
func NewReferralCode() string {
	var buf [6]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "FL000000"
	}
	out := make([]byte, 0, 8)
	out = append(out, 'F', 'L')
	for _, b := range buf {
		out = append(out, referralAlphabet[int(b)%len(referralAlphabet)])
	}
	return string(out)
}
