package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/infrastructure/persistence/inmem"
)

func newTestViews(t *testing.T) (*Views, *inmem.Store) {
	t.Helper()
	store := inmem.NewStore()
	return NewViews(store, schedule.NewBuilder(schedule.DefaultCodec(), testLogger())), store
}

func TestViews_GroupGridByIDAndName(t *testing.T) {
	ctx := context.Background()
	views, store := newTestViews(t)
	require.NoError(t, store.Replace(ctx, []schedule.Group{
		{ID: "g1", DisplayName: "IDGS-9", Sessions: []schedule.ClassSession{
			{SlotToken: "Mar19", Subject: "Redes", Professor: "Lopez", Room: "D-12"},
		}},
	}))

	byID, _, err := views.GroupGrid(ctx, "g1")
	require.NoError(t, err)
	require.NotNil(t, byID.At(19, "Mar"))

	byName, group, err := views.GroupGrid(ctx, "IDGS-9")
	require.NoError(t, err)
	assert.Equal(t, "g1", group.ID)
	assert.Equal(t, "Redes", byName.At(19, "Mar").Subject)
}

func TestViews_GroupGridNotFound(t *testing.T) {
	views, _ := newTestViews(t)

	_, _, err := views.GroupGrid(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestViews_ProfessorsAcrossGroups(t *testing.T) {
	ctx := context.Background()
	views, store := newTestViews(t)
	require.NoError(t, store.Replace(ctx, []schedule.Group{
		{ID: "g1", DisplayName: "G1", Sessions: []schedule.ClassSession{
			{SlotToken: "Lun18", Subject: "Calc", Professor: "Zu"},
			{SlotToken: "Mar18", Subject: "Alg", Professor: "Ak"},
		}},
		{ID: "g2", DisplayName: "G2", Sessions: []schedule.ClassSession{
			{SlotToken: "Mie18", Subject: "Geo", Professor: "Zu"},
		}},
	}))

	idx, err := views.Professors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ak", "Zu"}, idx.Professors())
	assert.Len(t, idx.Entries("Zu"), 2)
	assert.Equal(t, "G2", idx.Entries("Zu")[1].GroupName)
}

func TestViews_EmptyCache(t *testing.T) {
	views, _ := newTestViews(t)

	groups, err := views.Groups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)

	idx, err := views.Professors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}
