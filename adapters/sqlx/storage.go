// Package sqlx provides a SQL-backed Storage using jmoiron/sqlx.
// Snapshots are stored whole in a single table keyed by slot, matching the
// last-write-wins persistence contract.
package sqlx

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finlearn/core"
	"finlearn/engine"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Driver selects the SQL dialect.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverMySQL    Driver = "mysql"
)

// Config holds SQL storage configuration.
type Config struct {
	Driver          Driver        `json:"driver"`
	DSN             string        `json:"dsn"`
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
}

// DefaultConfig returns sensible defaults for the given driver.
func DefaultConfig(driver Driver) Config {
	return Config{
		Driver:          driver,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Schema is the DDL for the snapshot table. Exposed so deployments can run
// it through their own migration tooling.
const Schema = `
CREATE TABLE IF NOT EXISTS progress_snapshots (
	slot        VARCHAR(64) PRIMARY KEY,
	data        TEXT        NOT NULL,
	updated_at  TIMESTAMP   NOT NULL
);`

// Store implements engine.Storage over a SQL database.
type Store struct {
	db     *sqlx.DB
	driver Driver
}

// New opens a database connection for the configured driver.
func New(cfg Config) (*Store, error) {
	db, err := sqlx.Open(string(cfg.Driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db, driver: cfg.Driver}, nil
}

// NewWithDB wraps an existing connection (useful for testing).
func NewWithDB(db *sqlx.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// EnsureSchema creates the snapshot table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

func (s *Store) Load(ctx context.Context, slot core.Slot) (core.Progress, error) {
	query := s.db.Rebind(`SELECT data FROM progress_snapshots WHERE slot = ?`)
	var raw string
	err := s.db.GetContext(ctx, &raw, query, string(slot))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Progress{}, engine.ErrNotFound
	}
	if err != nil {
		return core.Progress{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var p core.Progress
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return core.Progress{}, fmt.Errorf("%w: %v", engine.ErrCorruptSnapshot, err)
	}
	return p, nil
}

func (s *Store) Save(ctx context.Context, slot core.Slot, p core.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	var query string
	switch s.driver {
	case DriverMySQL:
		query = `INSERT INTO progress_snapshots (slot, data, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
	default:
		query = s.db.Rebind(`INSERT INTO progress_snapshots (slot, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`)
	}

	if _, err := s.db.ExecContext(ctx, query, string(slot), string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

var _ engine.Storage = (*Store)(nil)
