package schedule

import "context"

// Cache is the persistent store holding the last synchronized schedule
// collection. The backend's sync model is non-incremental, so the only
// mutation is wholesale replacement; the last caller to Replace wins.
type Cache interface {
	// Replace overwrites the entire cached collection.
	Replace(ctx context.Context, groups []Group) error

	// Groups returns the cached collection, or an empty slice when the
	// cache was never populated. A missing cache is not an error.
	Groups(ctx context.Context) ([]Group, error)
}
