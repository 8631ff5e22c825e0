// Package sqlite implements the storage contract on a local SQLite file.
// This is the default backend: a single-file store that survives app
// restarts without needing an external service.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS app_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Store is a SQLite-backed implementation of persistence.Store. Multi-key
// writes run inside a transaction so Load never observes a half-written
// session.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the database file at path.
func Open(path string) (*Store, error) {
	// busy_timeout covers the CLI racing a second invocation on the same file.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Save persists the token and profile in one transaction.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("sqlite: marshal profile: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := upsert(ctx, tx, persistence.KeyAccessToken, sess.Token); err != nil {
			return err
		}
		return upsert(ctx, tx, persistence.KeyUser, string(profile))
	})
}

// Load returns the persisted session, or session.ErrNotFound when absent.
func (s *Store) Load(ctx context.Context) (session.Session, error) {
	token, err := s.get(ctx, persistence.KeyAccessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}

	sess := session.Session{Token: token}
	raw, err := s.get(ctx, persistence.KeyUser)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Save writes both keys together, so this only happens on a store
		// written by something else. Treat as a token-only session.
	case err != nil:
		return session.Session{}, err
	default:
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			return session.Session{}, fmt.Errorf("sqlite: unmarshal profile: %w", err)
		}
	}
	return sess, nil
}

// Clear removes the session keys; idempotent.
func (s *Store) Clear(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM app_state WHERE key IN (?, ?)`,
			persistence.KeyAccessToken, persistence.KeyUser,
		)
		if err != nil {
			return fmt.Errorf("sqlite: clear session: %w", err)
		}
		return nil
	})
}

// Replace overwrites the cached schedule collection wholesale.
func (s *Store) Replace(ctx context.Context, groups []schedule.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("sqlite: marshal groups: %w", err)
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsert(ctx, tx, persistence.KeyHorarios, string(data))
	})
}

// Groups returns the cached collection, empty when never populated.
func (s *Store) Groups(ctx context.Context) ([]schedule.Group, error) {
	raw, err := s.get(ctx, persistence.KeyHorarios)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []schedule.Group{}, nil
		}
		return nil, err
	}

	var groups []schedule.Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, fmt.Errorf("sqlite: unmarshal groups: %w", err)
	}
	return groups, nil
}

// Ping verifies the database file is usable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: tx failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_state WHERE key = ?`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	return value, nil
}

func upsert(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO app_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert %s: %w", key, err)
	}
	return nil
}
