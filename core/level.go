package core

// LevelForXP maps total XP to a level: floor(xp/100) + 1.
// Negative XP is treated as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/100 + 1
}

// XPForNextLevel returns the within-level XP threshold for the given level.
// This is not a cumulative total; progress bars render XPIntoLevel against it.
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * 100
}

// XPIntoLevel returns how far into the current level the XP total is.
func XPIntoLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % 100
}

// TierForLevel buckets a level into one of four bands. Bands are closed on
// their upper end: 1-3 beginner, 4-6 saver, 7-10 investor, 11+ expert.
func TierForLevel(level int) Tier {
	switch {
	case level <= 3:
		return TierBeginner
	case level <= 6:
		return TierSaver
	case level <= 10:
		return TierInvestor
	default:
		return TierExpert
	}
}
