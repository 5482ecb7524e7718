// Package social covers the friends surface: the learner's roster, referral
// based invites, and suggested connections.
package social

import (
	"strings"

	"finlearn/core"
)

// Friend is one row of the learner's roster.
type Friend struct {
	Name   string `json:"name"`
	Code   string `json:"code,omitempty"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
	Online bool   `json:"online"`
}

// Suggestion is a learner the user may want to connect with.
type Suggestion struct {
	Name          string `json:"name"`
	Code          string `json:"code"`
	MutualFriends int    `json:"mutual_friends"`
}

// seedFriends is the community roster every learner starts with.
var seedFriends = []Friend{
	{Name: "Priya S.", XP: 1500, Level: 15, Streak: 12, Online: true},
	{Name: "Rahul K.", XP: 1200, Level: 12, Streak: 8, Online: false},
	{Name: "Anjali M.", XP: 1000, Level: 10, Streak: 5, Online: true},
}

var seedSuggestions = []Suggestion{
	{Name: "Sneha T.", Code: "FL89XY12", MutualFriends: 3},
	{Name: "Rohan G.", Code: "FL45CD67", MutualFriends: 2},
}

// Roster returns the seed friends plus one row per referral code the learner
// added. Codes matching a suggestion take that suggestion's name.
func Roster(p core.Progress) []Friend {
	out := make([]Friend, len(seedFriends))
	copy(out, seedFriends)
	for _, code := range p.Friends {
		f := Friend{Name: displayName(code), Code: code, Level: 1}
		out = append(out, f)
	}
	return out
}

// Suggestions returns suggested connections, excluding codes the learner has
// already added.
func Suggestions(p core.Progress) []Suggestion {
	added := map[string]bool{}
	for _, code := range p.Friends {
		added[strings.ToUpper(code)] = true
	}
	out := make([]Suggestion, 0, len(seedSuggestions))
	for _, s := range seedSuggestions {
		if added[strings.ToUpper(s.Code)] {
			continue
		}
		out = append(out, s)
	}
	return out
}

func displayName(code string) string {
	for _, s := range seedSuggestions {
		if strings.EqualFold(s.Code, code) {
			return s.Name
		}
	}
	return code
}
