// Package postgres implements the storage contract on PostgreSQL, for
// server-side deployments where the engine state must be durable and
// shared across instances.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Config holds PostgreSQL connection configuration.
type Config struct {
	// Host is the database host.
	Host string

	// Port is the database port.
	Port int

	// Database is the database name.
	Database string

	// User is the database user.
	User string

	// Password is the database password.
	Password string

	// SSLMode is the SSL mode (disable, require, verify-ca, verify-full).
	SSLMode string

	// MaxConns is the maximum number of pooled connections.
	MaxConns int32

	// ConnectTimeout is the timeout for establishing a connection.
	ConnectTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Port:           5432,
		Database:       "uteq_hub",
		User:           "postgres",
		SSLMode:        "disable",
		MaxConns:       5,
		ConnectTimeout: 10 * time.Second,
	}
}

// DSN returns the connection string for PostgreSQL.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
		int(c.ConnectTimeout.Seconds()),
	)
}

// Store is a PostgreSQL-backed implementation of persistence.Store.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to PostgreSQL, verifies the connection, and ensures
// the state table exists.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: init schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Save persists the token and profile in one transaction.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("postgres: marshal profile: %w", err)
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := upsert(ctx, tx, persistence.KeyAccessToken, sess.Token); err != nil {
			return err
		}
		return upsert(ctx, tx, persistence.KeyUser, string(profile))
	})
}

// Load returns the persisted session, or session.ErrNotFound when absent.
func (s *Store) Load(ctx context.Context) (session.Session, error) {
	var token string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, persistence.KeyAccessToken,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("postgres: load token: %w", err)
	}

	sess := session.Session{Token: token}
	var raw string
	err = s.pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, persistence.KeyUser,
	).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Token-only record written by an older layout; tolerated.
	case err != nil:
		return session.Session{}, fmt.Errorf("postgres: load profile: %w", err)
	default:
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			return session.Session{}, fmt.Errorf("postgres: unmarshal profile: %w", err)
		}
	}
	return sess, nil
}

// Clear removes the session keys; idempotent.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM app_state WHERE key = ANY($1)`,
		[]string{persistence.KeyAccessToken, persistence.KeyUser},
	)
	if err != nil {
		return fmt.Errorf("postgres: clear session: %w", err)
	}
	return nil
}

// Replace overwrites the cached schedule collection wholesale.
func (s *Store) Replace(ctx context.Context, groups []schedule.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("postgres: marshal groups: %w", err)
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return upsert(ctx, tx, persistence.KeyHorarios, string(data))
	})
}

// Groups returns the cached collection, empty when never populated.
func (s *Store) Groups(ctx context.Context) ([]schedule.Group, error) {
	var raw string
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM app_state WHERE key = $1`, persistence.KeyHorarios,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []schedule.Group{}, nil
		}
		return nil, fmt.Errorf("postgres: load groups: %w", err)
	}

	var groups []schedule.Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, fmt.Errorf("postgres: unmarshal groups: %w", err)
	}
	return groups, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func upsert(ctx context.Context, tx pgx.Tx, key, value string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO app_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert %s: %w", key, err)
	}
	return nil
}
