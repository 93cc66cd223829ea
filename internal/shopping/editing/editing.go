// Package editing keeps the in-place edit state of shopping list items. The
// state is transient: it wraps items read from the store and is never
// persisted with them.
package editing

import (
	"errors"
	"strings"
	"sync"

	"recipe-finder/internal/shopping"
)

var (
	// ErrNotEditing is returned by Save for an item that has no open edit.
	ErrNotEditing = errors.New("item is not being edited")
	// ErrItemGone is returned when the edited item no longer exists.
	ErrItemGone = errors.New("item no longer exists")
)

// EditableItem is a shopping item plus its edit flag.
type EditableItem struct {
	shopping.Item
	Editing bool `json:"editing"`
}

// Draft holds the values an edit will save.
type Draft struct {
	Name     string
	Quantity float64
	Unit     string
}

// Session tracks which items are being edited, remembering the values each
// had when its edit started.
type Session struct {
	store *shopping.Store

	mu        sync.Mutex
	originals map[string]shopping.Item
}

// NewSession creates a Session over store.
func NewSession(store *shopping.Store) *Session {
	return &Session{
		store:     store,
		originals: make(map[string]shopping.Item),
	}
}

// StartEdit opens an edit for id. It returns the item's current values, or
// ErrItemGone when the store has no such item.
func (s *Session) StartEdit(id string) (shopping.Item, error) {
	item, ok := s.store.Item(id)
	if !ok {
		return shopping.Item{}, ErrItemGone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.originals[id] = item
	return item, nil
}

// IsEditing reports whether id has an open edit.
func (s *Session) IsEditing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.originals[id]
	return ok
}

// Original returns the values id had when its edit started.
func (s *Session) Original(id string) (shopping.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.originals[id]
	return item, ok
}

// Cancel closes the edit for id without touching the store.
func (s *Session) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.originals, id)
}

// Save writes d to the store and closes the edit. An empty name is
// rejected with shopping.ErrEmptyName; an empty unit or a quantity <= 0
// keeps the current value.
func (s *Session) Save(id string, d Draft) (shopping.Item, error) {
	s.mu.Lock()
	_, ok := s.originals[id]
	s.mu.Unlock()
	if !ok {
		return shopping.Item{}, ErrNotEditing
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shopping.Item{}, shopping.ErrEmptyName
	}
	update := shopping.ItemUpdate{Name: &name}
	if d.Quantity > 0 {
		update.Quantity = &d.Quantity
	}
	if unit := strings.TrimSpace(d.Unit); unit != "" {
		update.Unit = &unit
	}

	s.Cancel(id)
	item, ok := s.store.UpdateItem(id, update)
	if !ok {
		return shopping.Item{}, ErrItemGone
	}
	return item, nil
}

// Items returns the store's items with their edit flags. Edits whose item
// has been removed are dropped.
func (s *Session) Items() []EditableItem {
	items := s.store.Items()

	s.mu.Lock()
	defer s.mu.Unlock()
	present := make(map[string]struct{}, len(items))
	out := make([]EditableItem, len(items))
	for i, it := range items {
		present[it.ID] = struct{}{}
		_, editing := s.originals[it.ID]
		out[i] = EditableItem{Item: it, Editing: editing}
	}
	for id := range s.originals {
		if _, ok := present[id]; !ok {
			delete(s.originals, id)
		}
	}
	return out
}
