package core

import "time"

// TouchStreak records qualifying activity at now and returns the updated
// record. A second touch on the same UTC day is a no-op, the next consecutive
// day increments the streak, and any gap resets it to 1.
func TouchStreak(p Progress, now time.Time) Progress {
	now = now.UTC()
	switch {
	case p.Streak == 0 || p.LastActive.IsZero():
		p.Streak = 1
	case SameResetDay(p.LastActive, now):
		// already counted today
	case SameResetDay(p.LastActive.AddDate(0, 0, 1), now):
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastActive = now
	return p
}
