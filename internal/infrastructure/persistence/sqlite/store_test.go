package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "horarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	sess := session.Session{
		Token: "tok-123",
		Profile: session.Profile{
			FullName: "Ana Torres",
			Email:    "ana@uteq.edu.mx",
			Source:   session.ProfileKnown,
		},
	}
	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess, loaded)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "horarios.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, session.Session{
		Token:   "tok",
		Profile: session.Minimal("ana@uteq.edu.mx"),
	}))
	require.NoError(t, store.Replace(ctx, []schedule.Group{{ID: "g1", DisplayName: "Grupo 1"}}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", loaded.Token)
	assert.Equal(t, session.ProfileMinimal, loaded.Profile.Source)

	groups, err := reopened.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Grupo 1", groups[0].DisplayName)
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Save(ctx, session.Session{Token: "tok"}))
	require.NoError(t, store.Clear(ctx))

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, session.ErrNotFound)

	assert.NoError(t, store.Clear(ctx))
}

func TestStore_ReplaceIsWholesale(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	groups, err := store.Groups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	require.NoError(t, store.Replace(ctx, []schedule.Group{
		{ID: "g1", DisplayName: "Grupo 1"},
		{ID: "g2", DisplayName: "Grupo 2"},
	}))
	require.NoError(t, store.Replace(ctx, []schedule.Group{
		{ID: "g3", DisplayName: "Grupo 3", Sessions: []schedule.ClassSession{
			{SlotToken: "Vie20", Subject: "Prog", Professor: "Y", Room: "Lab1"},
		}},
	}))

	groups, err = store.Groups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "g3", groups[0].ID)
	require.Len(t, groups[0].Sessions, 1)
	assert.Equal(t, "Vie20", groups[0].Sessions[0].SlotToken)
}
