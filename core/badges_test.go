package core

import (
	"testing"
	"time"
)

func TestRegistryIDsUnique(t *testing.T) {
	seen := map[BadgeID]bool{}
	for _, def := range Registry {
		if err := ValidateBadgeID(def.ID); err != nil {
			t.Fatalf("bad id %q: %v", def.ID, err)
		}
		if seen[def.ID] {
			t.Fatalf("duplicate badge id %q", def.ID)
		}
		seen[def.ID] = true
	}
}

func TestSatisfiedEmptyRecord(t *testing.T) {
	p := NewGuestProgress(time.Now())
	if got := Satisfied(p); len(got) != 0 {
		t.Fatalf("fresh record should satisfy nothing, got %d", len(got))
	}
}

func TestNewlyEarnedFirstLesson(t *testing.T) {
	before := NewGuestProgress(time.Now())
	after := before.Clone()
	after.CompletedLessons = []string{"money-basics-1"}

	earned := NewlyEarned(after, &before)
	if len(earned) != 1 || earned[0].ID != "first-lesson" {
		t.Fatalf("expected first-lesson, got %+v", earned)
	}

	// once persisted to Badges it is never reported again
	after.Badges = append(after.Badges, "first-lesson")
	if again := NewlyEarned(after, &before); len(again) != 0 {
		t.Fatalf("badge re-reported after persisting: %+v", again)
	}
}

func TestNewlyEarnedIdempotent(t *testing.T) {
	p := NewGuestProgress(time.Now())
	p.XP = 5000
	p.Streak = 40
	p.CompletedLessons = []string{"a", "b"}
	if got := NewlyEarned(p, &p); len(got) != 0 {
		t.Fatalf("record diffed against itself should earn nothing, got %d", len(got))
	}
}

func TestNewlyEarnedStreakThreshold(t *testing.T) {
	before := NewGuestProgress(time.Now())
	before.Streak = 6
	after := before.Clone()
	after.Streak = 7

	earned := NewlyEarned(after, &before)
	if len(earned) != 1 || earned[0].ID != "streak-7" {
		t.Fatalf("expected streak-7, got %+v", earned)
	}
}

func TestNewlyEarnedRetention(t *testing.T) {
	// streak dips below threshold and recovers; badge must not re-fire
	p := NewGuestProgress(time.Now())
	p.Streak = 7
	p.Badges = []BadgeID{"streak-7"}

	dipped := p.Clone()
	dipped.Streak = 0
	recovered := dipped.Clone()
	recovered.Streak = 7

	if got := NewlyEarned(recovered, &dipped); len(got) != 0 {
		t.Fatalf("retained badge re-reported: %+v", got)
	}
}

func TestNewlyEarnedNilPrevious(t *testing.T) {
	p := NewGuestProgress(time.Now())
	p.CompletedLessons = []string{"money-basics-1"}
	earned := NewlyEarned(p, nil)
	if len(earned) != 1 || earned[0].ID != "first-lesson" {
		t.Fatalf("expected first-lesson with absent previous, got %+v", earned)
	}
}

func TestNewlyEarnedRegistryOrder(t *testing.T) {
	before := NewGuestProgress(time.Now())
	after := before.Clone()
	after.XP = 1000
	after.Level = 11
	after.Streak = 30
	after.CompletedLessons = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	earned := NewlyEarned(after, &before)
	for i := 1; i < len(earned); i++ {
		if registryIndex(earned[i-1].ID) > registryIndex(earned[i].ID) {
			t.Fatalf("results not in registry order: %v before %v", earned[i-1].ID, earned[i].ID)
		}
	}
}

func registryIndex(id BadgeID) int {
	for i, def := range Registry {
		if def.ID == id {
			return i
		}
	}
	return -1
}

func TestBadgeXPByTier(t *testing.T) {
	if BadgeXP(BadgeBronze) >= BadgeXP(BadgeSilver) ||
		BadgeXP(BadgeSilver) >= BadgeXP(BadgeGold) ||
		BadgeXP(BadgeGold) >= BadgeXP(BadgePlatinum) {
		t.Fatal("badge XP should increase with tier")
	}
}
