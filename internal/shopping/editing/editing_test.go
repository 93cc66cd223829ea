package editing

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recipe-finder/internal/shopping"
	"recipe-finder/internal/storage"
)

func newTestSession(t *testing.T) (*Session, *shopping.Store, *storage.MemoryStore, *storage.Writer) {
	t.Helper()
	kv := storage.NewMemoryStore()
	w := storage.NewWriter(zap.NewNop(), time.Second)
	t.Cleanup(func() { w.Close() })
	store := shopping.NewStore(context.Background(), kv, w, zap.NewNop())
	return NewSession(store), store, kv, w
}

func TestSession(t *testing.T) {
	t.Run("SaveUpdatesStore", func(t *testing.T) {
		session, store, _, _ := newTestSession(t)
		item, _ := store.AddItem("Leche", 1, "l")

		_, err := session.StartEdit(item.ID)
		require.NoError(t, err)
		assert.True(t, session.IsEditing(item.ID))

		saved, err := session.Save(item.ID, Draft{Name: "Leche entera", Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, "Leche entera", saved.Name)
		assert.Equal(t, 2.0, saved.Quantity)
		assert.Equal(t, "l", saved.Unit, "expected empty unit to keep the current one")
		assert.False(t, session.IsEditing(item.ID))
	})

	t.Run("CancelLeavesStoreUntouched", func(t *testing.T) {
		session, store, _, _ := newTestSession(t)
		item, _ := store.Add("Pan")

		session.StartEdit(item.ID)
		session.Cancel(item.ID)

		assert.False(t, session.IsEditing(item.ID))
		got, _ := store.Item(item.ID)
		assert.Equal(t, item, got)
	})

	t.Run("SaveWithoutEdit", func(t *testing.T) {
		session, store, _, _ := newTestSession(t)
		item, _ := store.Add("Pan")

		_, err := session.Save(item.ID, Draft{Name: "x"})
		assert.ErrorIs(t, err, ErrNotEditing)
	})

	t.Run("SaveRejectsEmptyName", func(t *testing.T) {
		session, store, _, _ := newTestSession(t)
		item, _ := store.Add("Pan")
		session.StartEdit(item.ID)

		_, err := session.Save(item.ID, Draft{Name: "  "})
		assert.ErrorIs(t, err, shopping.ErrEmptyName)
		assert.True(t, session.IsEditing(item.ID), "expected edit to stay open")
	})

	t.Run("RemovedItem", func(t *testing.T) {
		session, store, _, _ := newTestSession(t)
		item, _ := store.Add("Pan")
		session.StartEdit(item.ID)
		store.RemoveItem(item.ID)

		_, err := session.Save(item.ID, Draft{Name: "Pan"})
		assert.ErrorIs(t, err, ErrItemGone)

		_, err = session.StartEdit("missing")
		assert.ErrorIs(t, err, ErrItemGone)
	})

	t.Run("FlagIsNotPersisted", func(t *testing.T) {
		session, store, kv, w := newTestSession(t)
		a, _ := store.Add("A")
		store.Add("B")
		session.StartEdit(a.ID)

		items := session.Items()
		require.Len(t, items, 2)
		assert.True(t, items[0].Editing)
		assert.False(t, items[1].Editing)

		store.Add("C")
		require.NoError(t, w.Flush(context.Background()))
		raw, _, err := kv.Get(context.Background(), shopping.StorageKey)
		require.NoError(t, err)

		var persisted []map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
		for _, obj := range persisted {
			assert.NotContains(t, obj, "editing")
		}
	})
}
