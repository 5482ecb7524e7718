package core

import "time"

// Update is a partial overwrite of the progress record. Nil fields are left
// untouched; set fields replace wholesale, including slices. Callers build
// the full new slice (e.g. append the new lesson id to a copy) before calling.
// There is deliberately no Level field: level is always derived from XP.
type Update struct {
	XP                   *int
	Streak               *int
	CompletedLessons     []string
	CompletedQuizzes     []string
	CompletedSimulations *int
	Friends              []string
	DailyChallenges      []ChallengeInstance
	LastActive           *time.Time
}

// SideEffects reports what an update triggered beyond the field merge.
type SideEffects struct {
	NewBadges []BadgeDefinition
	BadgeXP   int
	LeveledUp bool
	FromLevel int
	ToLevel   int
}

// ApplyUpdate merges the partial update into the record, recomputes the
// level from the merged XP, and diffs the badge registry against the
// pre-update snapshot. Newly earned badges are appended to Badges and to the
// achievements log with the tier-scaled XP award; that award lands in the
// same returned record. Badge XP that itself unlocks a further badge is
// picked up by the next update rather than looped on here.
func ApplyUpdate(p Progress, u Update, now time.Time) (Progress, SideEffects) {
	prev := p.Clone()
	next := p.Clone()

	if u.XP != nil {
		next.XP = *u.XP
	}
	if u.Streak != nil {
		next.Streak = *u.Streak
	}
	if u.CompletedLessons != nil {
		next.CompletedLessons = append([]string(nil), u.CompletedLessons...)
	}
	if u.CompletedQuizzes != nil {
		next.CompletedQuizzes = append([]string(nil), u.CompletedQuizzes...)
	}
	if u.CompletedSimulations != nil {
		next.CompletedSimulations = *u.CompletedSimulations
	}
	if u.Friends != nil {
		next.Friends = append([]string(nil), u.Friends...)
	}
	if u.DailyChallenges != nil {
		next.DailyChallenges = append([]ChallengeInstance(nil), u.DailyChallenges...)
	}
	if u.LastActive != nil {
		next.LastActive = u.LastActive.UTC()
	}

	next.Level = LevelForXP(next.XP)

	effects := SideEffects{FromLevel: prev.Level, ToLevel: next.Level}
	effects.LeveledUp = next.Level > prev.Level

	earned := NewlyEarned(next, &prev)
	for _, def := range earned {
		award := BadgeXP(def.Tier)
		next.Badges = append(next.Badges, def.ID)
		next.Achievements = append(next.Achievements, Achievement{
			BadgeID:  def.ID,
			Name:     def.Name,
			Icon:     def.Icon,
			EarnedAt: now.UTC(),
			XP:       award,
		})
		next.XP += award
		effects.BadgeXP += award
	}
	effects.NewBadges = earned

	if len(earned) > 0 {
		// badge XP can push the level again
		next.Level = LevelForXP(next.XP)
		if next.Level > effects.ToLevel {
			effects.ToLevel = next.Level
			effects.LeveledUp = next.Level > prev.Level
		}
	}

	return next, effects
}
