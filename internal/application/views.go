package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
)

// ErrGroupNotFound is returned when no cached group matches the reference.
var ErrGroupNotFound = errors.New("schedule group not found")

// Views serves the derived presentation data. Grids and professor indexes
// are recomputed from the cache on every call; they are views, never
// sources of truth.
type Views struct {
	schedules schedule.Cache
	builder   *schedule.Builder
}

// NewViews creates the read side over the schedule cache.
func NewViews(schedules schedule.Cache, builder *schedule.Builder) *Views {
	return &Views{schedules: schedules, builder: builder}
}

// Groups returns the cached schedule collection.
func (v *Views) Groups(ctx context.Context) ([]schedule.Group, error) {
	return v.schedules.Groups(ctx)
}

// GroupGrid builds the day×hour grid for one group, referenced by id or
// display name.
func (v *Views) GroupGrid(ctx context.Context, ref string) (*schedule.Grid, schedule.Group, error) {
	groups, err := v.schedules.Groups(ctx)
	if err != nil {
		return nil, schedule.Group{}, err
	}
	for _, g := range groups {
		if g.ID == ref || g.DisplayName == ref {
			return v.builder.BuildGrid(g.Sessions), g, nil
		}
	}
	return nil, schedule.Group{}, fmt.Errorf("%w: %q", ErrGroupNotFound, ref)
}

// Professors builds the professor index across every cached group.
func (v *Views) Professors(ctx context.Context) (*schedule.ProfessorIndex, error) {
	groups, err := v.schedules.Groups(ctx)
	if err != nil {
		return nil, err
	}
	return v.builder.BuildProfessorIndex(groups), nil
}
