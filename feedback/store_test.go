package feedback

import (
	"context"
	"testing"

	"github.com/MUHULILAMRI/Done-Fast/database"
	"github.com/MUHULILAMRI/Done-Fast/listing"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, *realtime.Hub) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	hub := realtime.NewHub(nil)
	return NewStore(db, hub), hub
}

func TestStore(t *testing.T) {
	store, hub := setupStore(t)
	events, cancel := hub.Subscribe(Table)
	defer cancel()
	ctx := context.Background()

	anon, err := store.Create(ctx, "  ", "", "Pelayanannya cepat sekali, terima kasih!")
	require.NoError(t, err)
	assert.Nil(t, anon.Name)
	assert.Nil(t, anon.Email)
	assert.False(t, anon.IsRead)

	named, err := store.Create(ctx, "Rina", "rina@example.com", "Revisi skripsinya sangat membantu.")
	require.NoError(t, err)

	read, err := store.SetRead(ctx, anon.ID, true)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	_, err = store.SetRead(ctx, "missing", true)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	unread := listing.Where(list, func(f models.Feedback) bool { return MatchesFilter(f, FilterUnread) })
	require.Len(t, unread, 1)
	assert.Equal(t, named.ID, unread[0].ID)

	found := listing.Search(list, "RINA@", SearchFields)
	require.Len(t, found, 1)
	assert.Len(t, listing.Search(list, "cepat", SearchFields), 1)

	require.NoError(t, store.Delete(ctx, named.ID))
	assert.ErrorIs(t, store.Delete(ctx, named.ID), ErrNotFound)

	var types []realtime.EventType
	for i := 0; i < 4; i++ {
		types = append(types, (<-events).Type)
	}
	assert.Equal(t, []realtime.EventType{realtime.Insert, realtime.Insert, realtime.Update, realtime.Delete}, types)
}
