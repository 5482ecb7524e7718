// Package leaderboard ranks learners by lifetime XP. It backs the community
// standings view with an in-memory skip list, with the Redis adapter's ZSET
// available as a distributed alternative.
package leaderboard

// Entry is one learner's row on the board.
type Entry struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Streak int    `json:"streak"`
	Badges int    `json:"badges"`
}

// Board abstracts leaderboard operations.
type Board interface {
	Update(e Entry)
	Remove(userID string)
	TopN(n int) []Entry
	Get(userID string) (Entry, bool)
}
