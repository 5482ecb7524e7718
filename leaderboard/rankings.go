package leaderboard

import (
	"sort"

	"finlearn/core"
)

// Ranking is an Entry annotated with its position on the board. Ties on XP
// share a rank.
type Ranking struct {
	Rank int `json:"rank"`
	Entry
	You bool `json:"you,omitempty"`
}

// SeedEntries returns the community roster shown to new learners before any
// real peers exist.
func SeedEntries() []Entry {
	return []Entry{
		{UserID: "priya-s", Name: "Priya S.", XP: 850, Level: 9, Streak: 12, Badges: 4},
		{UserID: "rahul-k", Name: "Rahul K.", XP: 720, Level: 8, Streak: 8, Badges: 3},
		{UserID: "anjali-m", Name: "Anjali M.", XP: 680, Level: 7, Streak: 10, Badges: 3},
		{UserID: "arjun-p", Name: "Arjun P.", XP: 540, Level: 6, Streak: 5, Badges: 2},
		{UserID: "divya-r", Name: "Divya R.", XP: 480, Level: 5, Streak: 6, Badges: 2},
		{UserID: "karthik-v", Name: "Karthik V.", XP: 420, Level: 5, Streak: 4, Badges: 2},
		{UserID: "sneha-t", Name: "Sneha T.", XP: 350, Level: 4, Streak: 3, Badges: 1},
		{UserID: "rohan-g", Name: "Rohan G.", XP: 280, Level: 3, Streak: 2, Badges: 1},
	}
}

// NewSeededBoard builds a skip list pre-populated with the seed roster.
func NewSeededBoard() *SkipList {
	b := NewSkipList()
	for _, e := range SeedEntries() {
		b.Update(e)
	}
	return b
}

// EntryFor projects a progress snapshot onto the board.
func EntryFor(p core.Progress) Entry {
	id := p.UserID
	if id == "" {
		id = "you"
	}
	return Entry{
		UserID: id,
		Name:   "You",
		XP:     p.XP,
		Level:  p.Level,
		Streak: p.Streak,
		Badges: len(p.Badges),
	}
}

// Standings merges the learner's current progress into the board and returns
// the ranked view. The board itself is not mutated.
func Standings(b Board, p core.Progress) []Ranking {
	you := EntryFor(p)
	entries := b.TopN(1 << 16)
	merged := make([]Entry, 0, len(entries)+1)
	for _, e := range entries {
		if e.UserID == you.UserID {
			continue
		}
		merged = append(merged, e)
	}
	merged = append(merged, you)
	sort.Slice(merged, func(i, j int) bool { return less(merged[i], merged[j]) })

	out := make([]Ranking, len(merged))
	rank := 0
	for i, e := range merged {
		if i == 0 || e.XP != merged[i-1].XP {
			rank = i + 1
		}
		out[i] = Ranking{Rank: rank, Entry: e, You: e.UserID == you.UserID}
	}
	return out
}
