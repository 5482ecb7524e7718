package core

// BadgeDefinition pairs a badge identifier with a pure predicate over the
// progress record. The registry is data, not a type hierarchy, so each rule
// stays independently testable.
type BadgeDefinition struct {
	ID          BadgeID
	Name        string
	Description string
	Icon        string
	Tier        BadgeTier
	Satisfied   func(Progress) bool `json:"-"`
}

// Registry is the static badge table, evaluated in declaration order.
var Registry = []BadgeDefinition{
	{
		ID:          "first-lesson",
		Name:        "First Steps",
		Description: "Complete your first lesson",
		Icon:        "🎓",
		Tier:        BadgeBronze,
		Satisfied:   func(p Progress) bool { return len(p.CompletedLessons) >= 1 },
	},
	{
		ID:          "lesson-master",
		Name:        "Lesson Master",
		Description: "Complete 10 lessons",
		Icon:        "📚",
		Tier:        BadgeSilver,
		Satisfied:   func(p Progress) bool { return len(p.CompletedLessons) >= 10 },
	},
	{
		ID:          "quiz-champion",
		Name:        "Quiz Champion",
		Description: "Pass 5 quizzes",
		Icon:        "🏆",
		Tier:        BadgeGold,
		Satisfied:   func(p Progress) bool { return len(p.CompletedQuizzes) >= 5 },
	},
	{
		ID:          "streak-7",
		Name:        "Week Warrior",
		Description: "7 day learning streak",
		Icon:        "🔥",
		Tier:        BadgeSilver,
		Satisfied:   func(p Progress) bool { return p.Streak >= 7 },
	},
	{
		ID:          "streak-30",
		Name:        "Monthly Master",
		Description: "30 day learning streak",
		Icon:        "⚡",
		Tier:        BadgePlatinum,
		Satisfied:   func(p Progress) bool { return p.Streak >= 30 },
	},
	{
		ID:          "xp-1000",
		Name:        "XP Collector",
		Description: "Earn 1000 XP",
		Icon:        "⭐",
		Tier:        BadgeGold,
		Satisfied:   func(p Progress) bool { return p.XP >= 1000 },
	},
	{
		ID:          "level-5",
		Name:        "Rising Star",
		Description: "Reach Level 5",
		Icon:        "🌟",
		Tier:        BadgeSilver,
		Satisfied:   func(p Progress) bool { return p.Level >= 5 },
	},
	{
		ID:          "level-10",
		Name:        "Expert Learner",
		Description: "Reach Level 10",
		Icon:        "💎",
		Tier:        BadgePlatinum,
		Satisfied:   func(p Progress) bool { return p.Level >= 10 },
	},
	{
		ID:          "referral-3",
		Name:        "Team Builder",
		Description: "Refer 3 friends",
		Icon:        "🤝",
		Tier:        BadgeGold,
		Satisfied:   func(p Progress) bool { return len(p.Friends) >= 3 },
	},
	{
		ID:          "budget-master",
		Name:        "Budget Master",
		Description: "Complete 10 budget simulations",
		Icon:        "💰",
		Tier:        BadgeSilver,
		Satisfied:   func(p Progress) bool { return p.CompletedSimulations >= 10 },
	},
}

// BadgeByID looks a definition up in the registry.
func BadgeByID(id BadgeID) (BadgeDefinition, bool) {
	for _, def := range Registry {
		if def.ID == id {
			return def, true
		}
	}
	return BadgeDefinition{}, false
}

// Satisfied returns every registry definition whose predicate holds for the
// record, in registry order.
func Satisfied(p Progress) []BadgeDefinition {
	var out []BadgeDefinition
	for _, def := range Registry {
		if def.Satisfied(p) {
			out = append(out, def)
		}
	}
	return out
}

// NewlyEarned diffs the current record against a previous snapshot and
// returns definitions that became satisfied with this change and are not
// already persisted as earned. previous may be nil for a first evaluation.
// Once an id is in current.Badges it is never re-reported, even if the
// predicate dipped false and recovered in between.
func NewlyEarned(current Progress, previous *Progress) []BadgeDefinition {
	var out []BadgeDefinition
	for _, def := range Registry {
		if !def.Satisfied(current) {
			continue
		}
		if previous != nil && def.Satisfied(*previous) {
			continue
		}
		if current.HasBadge(def.ID) {
			continue
		}
		out = append(out, def)
	}
	return out
}

// BadgeXP is the XP awarded alongside a badge unlock. The registry itself
// carries no per-badge reward; the award scales with the badge tier.
func BadgeXP(tier BadgeTier) int {
	switch tier {
	case BadgeBronze:
		return 25
	case BadgeSilver:
		return 50
	case BadgeGold:
		return 100
	case BadgePlatinum:
		return 200
	default:
		return 0
	}
}
