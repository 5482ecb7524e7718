package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finlearn/core"
	"finlearn/engine"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Store implements engine.Storage on Redis.
// Data structure:
// - finlearn:slot:{slot} -> JSON blob of the progress snapshot
// - finlearn:slot:{slot}:badges -> set of earned badge ids
// - finlearn:leaderboard -> ZSET of user id by XP
// The badge set and leaderboard ZSET are derived views kept in step with the
// blob on every save so external consumers can query them directly.
type Store struct {
	client *redis.Client
}

// New creates a Redis-backed storage with the provided configuration.
func New(config Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{client: client}, nil
}

// NewWithClient creates a Store using an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

const leaderboardKey = "finlearn:leaderboard"

func slotKey(slot core.Slot) string {
	return fmt.Sprintf("finlearn:slot:%s", slot)
}

func slotBadgesKey(slot core.Slot) string {
	return fmt.Sprintf("finlearn:slot:%s:badges", slot)
}

func (s *Store) Load(ctx context.Context, slot core.Slot) (core.Progress, error) {
	data, err := s.client.Get(ctx, slotKey(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return core.Progress{}, engine.ErrNotFound
	}
	if err != nil {
		return core.Progress{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var p core.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return core.Progress{}, fmt.Errorf("%w: %v", engine.ErrCorruptSnapshot, err)
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, slot core.Slot, p core.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, slotKey(slot), data, 0)
	pipe.Del(ctx, slotBadgesKey(slot))
	if len(p.Badges) > 0 {
		members := make([]interface{}, 0, len(p.Badges))
		for _, b := range p.Badges {
			members = append(members, string(b))
		}
		pipe.SAdd(ctx, slotBadgesKey(slot), members...)
	}
	if p.UserID != "" {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(p.XP), Member: p.UserID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// TopXP returns the highest-XP user ids from the leaderboard ZSET.
func (s *Store) TopXP(ctx context.Context, n int) ([]redis.Z, error) {
	return s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(n-1)).Result()
}

var _ engine.Storage = (*Store)(nil)
