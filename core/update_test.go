package core

import (
	"testing"
	"time"
)

func intp(v int) *int { return &v }

func TestApplyUpdateRecomputesLevel(t *testing.T) {
	now := time.Now()
	p := NewGuestProgress(now)
	if p.Level != 1 || TierForLevel(p.Level) != TierBeginner {
		t.Fatalf("fresh record level/tier wrong: %+v", p)
	}

	next, effects := ApplyUpdate(p, Update{XP: intp(150)}, now)
	if next.Level != 2 {
		t.Fatalf("level = %d, want 2", next.Level)
	}
	if TierForLevel(next.Level) != TierBeginner {
		t.Fatal("tier should remain beginner at level 2")
	}
	if !effects.LeveledUp || effects.FromLevel != 1 || effects.ToLevel != 2 {
		t.Fatalf("effects = %+v", effects)
	}
}

func TestApplyUpdateEarnsBadgeOnce(t *testing.T) {
	now := time.Now()
	p := NewGuestProgress(now)

	next, effects := ApplyUpdate(p, Update{
		CompletedLessons: []string{"money-basics-1"},
		XP:               intp(50),
	}, now)

	if len(effects.NewBadges) != 1 || effects.NewBadges[0].ID != "first-lesson" {
		t.Fatalf("expected first-lesson, got %+v", effects.NewBadges)
	}
	if !next.HasBadge("first-lesson") {
		t.Fatal("badge not persisted")
	}
	if len(next.Achievements) != 1 || next.Achievements[0].BadgeID != "first-lesson" {
		t.Fatalf("achievement log = %+v", next.Achievements)
	}
	if next.Achievements[0].XP != BadgeXP(BadgeBronze) {
		t.Fatalf("achievement xp = %d", next.Achievements[0].XP)
	}
	if next.XP != 50+BadgeXP(BadgeBronze) {
		t.Fatalf("badge XP not applied: %d", next.XP)
	}

	// replaying the same update against the new record earns nothing
	again, effects2 := ApplyUpdate(next, Update{XP: intp(next.XP)}, now)
	if len(effects2.NewBadges) != 0 {
		t.Fatalf("badge earned twice: %+v", effects2.NewBadges)
	}
	if len(again.Achievements) != 1 {
		t.Fatalf("achievement log grew: %d", len(again.Achievements))
	}
}

func TestApplyUpdateReplacesWholesale(t *testing.T) {
	now := time.Now()
	p := NewGuestProgress(now)
	p.Friends = []string{"a", "b"}

	next, _ := ApplyUpdate(p, Update{Friends: []string{"c"}}, now)
	if len(next.Friends) != 1 || next.Friends[0] != "c" {
		t.Fatalf("friends should be replaced, got %v", next.Friends)
	}

	// nil field leaves the record untouched
	untouched, _ := ApplyUpdate(next, Update{XP: intp(next.XP + 1)}, now)
	if len(untouched.Friends) != 1 {
		t.Fatalf("nil update touched friends: %v", untouched.Friends)
	}
}

func TestApplyUpdateStreakBadge(t *testing.T) {
	now := time.Now()
	p := NewGuestProgress(now)
	p.Streak = 6

	next, effects := ApplyUpdate(p, Update{Streak: intp(7)}, now)
	if len(effects.NewBadges) != 1 || effects.NewBadges[0].ID != "streak-7" {
		t.Fatalf("expected streak-7, got %+v", effects.NewBadges)
	}

	// dropping and recovering the streak must not re-fire
	dropped, _ := ApplyUpdate(next, Update{Streak: intp(0)}, now)
	again, effects2 := ApplyUpdate(dropped, Update{Streak: intp(7)}, now)
	if len(effects2.NewBadges) != 0 {
		t.Fatalf("streak-7 re-fired: %+v", effects2.NewBadges)
	}
	if !again.HasBadge("streak-7") {
		t.Fatal("badge lost")
	}
}

func TestApplyUpdateDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	p := NewGuestProgress(now)
	_, _ = ApplyUpdate(p, Update{CompletedLessons: []string{"x"}, XP: intp(999)}, now)
	if p.XP != 0 || len(p.CompletedLessons) != 0 || len(p.Badges) != 0 {
		t.Fatalf("input record mutated: %+v", p)
	}
}
