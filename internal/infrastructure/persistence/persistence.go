// Package persistence defines the durable key surface shared by every
// storage backend, and the composite Store interface the application wires
// at startup. The entire durable state of the engine is three keys.
package persistence

import (
	"context"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
)

// Persisted key names. These mirror the keys the presentation layer has
// always read, so a backend swap never changes the visible state surface.
const (
	// KeyAccessToken holds the opaque bearer credential.
	KeyAccessToken = "access_token"

	// KeyUser holds the serialized secret-free profile.
	KeyUser = "user"

	// KeyHorarios holds the serialized schedule collection.
	KeyHorarios = "horarios"
)

// Store is the full storage contract a backend must satisfy: the session
// store and the schedule cache, plus lifecycle management.
type Store interface {
	session.Store
	schedule.Cache

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}
