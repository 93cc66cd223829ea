package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recipe-finder/internal/storage"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "shopping-list"

// Defaults applied by AddItem.
const (
	DefaultQuantity = 1.0
	DefaultUnit     = "unit"
)

// ErrEmptyName is returned by AddItem when the trimmed name is empty.
var ErrEmptyName = errors.New("item name is empty")

// Listener receives a copy of the list after every change.
type Listener func(items []Item)

type subscription struct {
	id int
	fn Listener
}

// Store owns the shopping list. Every change is applied in memory first,
// announced to listeners and then persisted asynchronously through the
// writer; persistence failures are logged and never undo the change.
type Store struct {
	mu          sync.Mutex
	items       []Item
	subscribers []subscription
	nextSubID   int

	kv     storage.KeyValueStore
	writer *storage.Writer
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides item id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// NewStore creates a Store and loads the persisted list from kv. A missing,
// unreadable or corrupt value yields an empty list.
func NewStore(ctx context.Context, kv storage.KeyValueStore, writer *storage.Writer, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		writer: writer,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []Item {
	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Warn("failed to load shopping list, starting empty", zap.Error(err))
		return []Item{}
	}
	if !found {
		return []Item{}
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("failed to parse shopping list, starting empty", zap.Error(err))
		return []Item{}
	}
	if items == nil {
		items = []Item{}
	}
	return items
}

// Items returns a copy of the list in order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Item returns the item with the given id.
func (s *Store) Item(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Counts returns the number of items and how many of them are completed.
func (s *Store) Counts() (total, completed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Completed {
			completed++
		}
	}
	return len(s.items), completed
}

// Add adds one DefaultUnit of name.
func (s *Store) Add(name string) (Item, error) {
	return s.AddItem(name, DefaultQuantity, DefaultUnit)
}

// AddItem adds quantity of name. An existing item whose name matches
// case-insensitively has its quantity increased in place; otherwise a new
// item is appended. quantity <= 0 and an empty unit select the defaults.
func (s *Store) AddItem(name string, quantity float64, unit string) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, ErrEmptyName
	}
	if quantity <= 0 {
		quantity = DefaultQuantity
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = DefaultUnit
	}

	s.mu.Lock()
	var result Item
	merged := false
	for i := range s.items {
		if strings.EqualFold(s.items[i].Name, name) {
			s.items[i].Quantity += quantity
			result = s.items[i]
			merged = true
			break
		}
	}
	if !merged {
		result = Item{
			ID:        s.newID(),
			Name:      name,
			Quantity:  quantity,
			Unit:      unit,
			Completed: false,
			CreatedAt: s.now(),
		}
		s.items = append(s.items, result)
	}
	s.commitLocked("add")
	return result, nil
}

// UpdateItem merges update into the item with id, keeping its position.
// It reports false, changing nothing, when no such item exists.
func (s *Store) UpdateItem(id string, update ItemUpdate) (Item, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Item{}, false
	}
	update.apply(&s.items[i])
	updated := s.items[i]
	s.commitLocked("update")
	return updated, true
}

// ToggleCompleted flips the completed flag of the item with id. It reports
// false when no such item exists.
func (s *Store) ToggleCompleted(id string) (Item, bool) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return Item{}, false
	}
	s.items[i].Completed = !s.items[i].Completed
	toggled := s.items[i]
	s.commitLocked("toggle")
	return toggled, true
}

// RemoveItem deletes the item with id, if any.
func (s *Store) RemoveItem(id string) {
	s.mu.Lock()
	s.items = s.filterLocked(func(it Item) bool { return it.ID != id })
	s.commitLocked("remove")
}

// ClearCompleted deletes every completed item.
func (s *Store) ClearCompleted() {
	s.mu.Lock()
	s.items = s.filterLocked(func(it Item) bool { return !it.Completed })
	s.commitLocked("clear-completed")
}

// ClearAll empties the list.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.items = []Item{}
	s.commitLocked("clear-all")
}

// Subscribe registers fn to run after every change. The returned function
// removes the registration.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// commitLocked queues the persistence of the current list, releases the
// lock and notifies listeners. Writes are queued while the lock is held so
// they reach the writer in mutation order.
func (s *Store) commitLocked(op string) {
	snapshot := s.snapshotLocked()
	s.persistLocked(op, snapshot)
	subs := make([]subscription, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(cloneItems(snapshot))
	}
}

func (s *Store) persistLocked(op string, items []Item) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error("failed to marshal shopping list", zap.String("op", op), zap.Error(err))
		return
	}
	value := string(data)
	s.writer.Submit(fmt.Sprintf("shopping-list/%s", op), func(ctx context.Context) error {
		return s.kv.Set(ctx, StorageKey, value)
	})
}

func (s *Store) indexLocked(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) filterLocked(keep func(Item) bool) []Item {
	out := make([]Item, 0, len(s.items))
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) snapshotLocked() []Item {
	return cloneItems(s.items)
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
