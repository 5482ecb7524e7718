// Package content holds the static lesson catalog and quiz bank.
// Like the badge registry, the catalog is process-wide read-only data.
package content

import "finlearn/core"

// Lesson is one entry in the learning catalog.
type Lesson struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	XP          int    `json:"xp"`
	Duration    string `json:"duration"`
	// MinLevel gates later lessons; zero means always available.
	MinLevel int `json:"min_level,omitempty"`
}

// Lessons is the full catalog in display order.
var Lessons = []Lesson{
	{
		ID:          "money-basics-1",
		Title:       "What is Money?",
		Description: "Understanding the basics of money and currency",
		Category:    "Money Basics",
		XP:          50,
		Duration:    "5 min",
	},
	{
		ID:          "money-basics-2",
		Title:       "Income vs Expenses",
		Description: "Learn the difference between earning and spending",
		Category:    "Money Basics",
		XP:          50,
		Duration:    "5 min",
	},
	{
		ID:          "savings-1",
		Title:       "Why Save Money?",
		Description: "The importance of building savings habits",
		Category:    "Savings",
		XP:          75,
		Duration:    "7 min",
	},
	{
		ID:          "savings-2",
		Title:       "Emergency Fund",
		Description: "Building your financial safety net",
		Category:    "Savings",
		XP:          75,
		Duration:    "7 min",
		MinLevel:    2,
	},
	{
		ID:          "budgeting-1",
		Title:       "Creating a Budget",
		Description: "Plan your spending with the 50-30-20 rule",
		Category:    "Budgeting",
		XP:          100,
		Duration:    "10 min",
		MinLevel:    3,
	},
	{
		ID:          "investing-1",
		Title:       "Introduction to Investing",
		Description: "Making your money work for you",
		Category:    "Investing",
		XP:          100,
		Duration:    "10 min",
		MinLevel:    4,
	},
}

// LessonByID looks a lesson up in the catalog.
func LessonByID(id string) (Lesson, bool) {
	for _, l := range Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// Unlocked reports whether the record's level meets the lesson gate.
func (l Lesson) Unlocked(p core.Progress) bool {
	return l.MinLevel == 0 || p.Level >= l.MinLevel
}

// LessonsByCategory groups the catalog preserving category first-seen order.
func LessonsByCategory() ([]string, map[string][]Lesson) {
	var order []string
	groups := map[string][]Lesson{}
	for _, l := range Lessons {
		if _, ok := groups[l.Category]; !ok {
			order = append(order, l.Category)
		}
		groups[l.Category] = append(groups[l.Category], l)
	}
	return order, groups
}
