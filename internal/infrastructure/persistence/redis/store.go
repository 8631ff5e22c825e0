// Package redis implements the storage contract on a Redis server, for
// deployments where the engine runs as a shared service (for example a
// campus kiosk fleet) instead of against a local file.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence"
)

// keyPrefix namespaces every key so the engine can share a database.
const keyPrefix = "uteq:"

// ErrConnection is returned when the Redis server is unreachable.
var ErrConnection = errors.New("redis: connection failed")

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the authentication password (empty if no auth).
	Password string

	// DB is the Redis database number.
	DB int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Store is a Redis-backed implementation of persistence.Store. Session
// writes go through a transactional pipeline so both keys land together.
type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}

	return &Store{client: client}, nil
}

// Save persists the token and profile atomically via MULTI/EXEC.
func (s *Store) Save(ctx context.Context, sess session.Session) error {
	profile, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("redis: marshal profile: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+persistence.KeyAccessToken, sess.Token, 0)
	pipe.Set(ctx, keyPrefix+persistence.KeyUser, profile, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, or session.ErrNotFound when absent.
func (s *Store) Load(ctx context.Context) (session.Session, error) {
	values, err := s.client.MGet(ctx,
		keyPrefix+persistence.KeyAccessToken,
		keyPrefix+persistence.KeyUser,
	).Result()
	if err != nil {
		return session.Session{}, fmt.Errorf("redis: load session: %w", err)
	}

	token, ok := values[0].(string)
	if !ok || token == "" {
		return session.Session{}, session.ErrNotFound
	}

	sess := session.Session{Token: token}
	if raw, ok := values[1].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			return session.Session{}, fmt.Errorf("redis: unmarshal profile: %w", err)
		}
	}
	return sess, nil
}

// Clear removes the session keys; idempotent.
func (s *Store) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		keyPrefix+persistence.KeyAccessToken,
		keyPrefix+persistence.KeyUser,
	).Err()
	if err != nil {
		return fmt.Errorf("redis: clear session: %w", err)
	}
	return nil
}

// Replace overwrites the cached schedule collection wholesale.
func (s *Store) Replace(ctx context.Context, groups []schedule.Group) error {
	data, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("redis: marshal groups: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+persistence.KeyHorarios, data, 0).Err(); err != nil {
		return fmt.Errorf("redis: replace groups: %w", err)
	}
	return nil
}

// Groups returns the cached collection, empty when never populated.
func (s *Store) Groups(ctx context.Context) ([]schedule.Group, error) {
	raw, err := s.client.Get(ctx, keyPrefix+persistence.KeyHorarios).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []schedule.Group{}, nil
		}
		return nil, fmt.Errorf("redis: load groups: %w", err)
	}

	var groups []schedule.Group
	if err := json.Unmarshal([]byte(raw), &groups); err != nil {
		return nil, fmt.Errorf("redis: unmarshal groups: %w", err)
	}
	return groups, nil
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}
