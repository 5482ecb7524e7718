package core

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeUserID(t *testing.T) {
	id, err := NormalizeUserID(" Alice ")
	if err != nil || id != "alice" {
		t.Fatalf("got %v %v", id, err)
	}
	if _, err := NormalizeUserID("   "); err == nil {
		t.Fatalf("expected empty error")
	}
}

func TestValidateBadgeID(t *testing.T) {
	if err := ValidateBadgeID("budget-master"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := ValidateBadgeID("bad badge"); err == nil {
		t.Fatalf("expected invalid badge err")
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := NewGuestProgress(time.Now())
	p.CompletedLessons = []string{"a"}
	cp := p.Clone()
	cp.CompletedLessons[0] = "b"
	cp.DailyChallenges[0].Progress = 99
	if p.CompletedLessons[0] != "a" {
		t.Fatal("clone shares lesson slice")
	}
	if p.DailyChallenges[0].Progress == 99 {
		t.Fatal("clone shares challenge slice")
	}
}

func TestNewReferralCode(t *testing.T) {
	code := NewReferralCode()
	if !strings.HasPrefix(code, "FL") || len(code) != 8 {
		t.Fatalf("unexpected code %q", code)
	}
}

func TestTouchStreak(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 4, d, 9, 0, 0, 0, time.UTC) }

	p := NewGuestProgress(day(1))
	p.Streak = 0
	p.LastActive = time.Time{}

	p = TouchStreak(p, day(1))
	if p.Streak != 1 {
		t.Fatalf("first touch streak = %d", p.Streak)
	}

	// same day is a no-op
	p = TouchStreak(p, day(1).Add(3*time.Hour))
	if p.Streak != 1 {
		t.Fatalf("same-day touch streak = %d", p.Streak)
	}

	// consecutive day increments
	p = TouchStreak(p, day(2))
	if p.Streak != 2 {
		t.Fatalf("next-day touch streak = %d", p.Streak)
	}

	// a gap resets
	p = TouchStreak(p, day(5))
	if p.Streak != 1 {
		t.Fatalf("gap touch streak = %d", p.Streak)
	}
}
