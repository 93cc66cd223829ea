// Package favorites mirrors the set of favorite recipe ids kept in a
// document store.
package favorites

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"recipe-finder/internal/storage"
)

// Location of the favorites document.
const (
	Collection = "favorites"
	DocumentID = "user-favorites"
)

// Listener receives a copy of the favorite ids after every change.
type Listener func(ids []string)

type subscription struct {
	id int
	fn Listener
}

// Service holds the in-memory mirror of the favorites document. Changes
// apply to the mirror immediately and the whole set is written back
// through the writer; a failed write is logged and the mirror keeps the
// change.
type Service struct {
	docs   storage.DocumentStore
	writer *storage.Writer
	logger *zap.Logger

	mu          sync.Mutex
	ids         []string
	subscribers []subscription
	nextSubID   int
}

// NewService creates a Service with an empty mirror. Call Load to read the
// stored document.
func NewService(docs storage.DocumentStore, writer *storage.Writer, logger *zap.Logger) *Service {
	return &Service{
		docs:   docs,
		writer: writer,
		logger: logger,
		ids:    []string{},
	}
}

// Load replaces the mirror with the stored document. On failure the mirror
// is left as it was.
func (s *Service) Load(ctx context.Context) error {
	doc, err := s.docs.GetDocument(ctx, Collection, DocumentID)
	if err != nil {
		s.logger.Warn("failed to load favorites", zap.Error(err))
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	ids := []string{}
	if doc != nil {
		for _, id := range doc.RecipeIDs {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}

	s.mu.Lock()
	s.ids = ids
	s.notifyLocked()
	return nil
}

// IsFavorite reports whether id is a favorite.
func (s *Service) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, id)
}

// IDs returns the favorite ids in the order they were added.
func (s *Service) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

// Add marks id as a favorite. Adding a present id changes and writes
// nothing.
func (s *Service) Add(id string) {
	s.mu.Lock()
	if slices.Contains(s.ids, id) {
		s.mu.Unlock()
		return
	}
	s.ids = append(slices.Clone(s.ids), id)
	s.persistLocked("add")
	s.notifyLocked()
}

// Remove unmarks id. The set is written even when id was not a favorite.
func (s *Service) Remove(id string) {
	s.mu.Lock()
	s.ids = slices.DeleteFunc(slices.Clone(s.ids), func(v string) bool { return v == id })
	s.persistLocked("remove")
	s.notifyLocked()
}

// Toggle flips id and reports whether it is now a favorite.
func (s *Service) Toggle(id string) bool {
	s.mu.Lock()
	favorite := !slices.Contains(s.ids, id)
	if favorite {
		s.ids = append(slices.Clone(s.ids), id)
		s.persistLocked("add")
	} else {
		s.ids = slices.DeleteFunc(slices.Clone(s.ids), func(v string) bool { return v == id })
		s.persistLocked("remove")
	}
	s.notifyLocked()
	return favorite
}

// Subscribe registers fn to run after every change to the mirror.
func (s *Service) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscription) bool { return sub.id == id })
	}
}

func (s *Service) persistLocked(op string) {
	doc := storage.Document{RecipeIDs: slices.Clone(s.ids)}
	s.writer.Submit("favorites/"+op, func(ctx context.Context) error {
		if err := s.docs.SetDocument(ctx, Collection, DocumentID, doc); err != nil {
			return fmt.Errorf("failed to save favorites: %w", err)
		}
		return nil
	})
}

// notifyLocked releases the lock, then calls the listeners.
func (s *Service) notifyLocked() {
	ids := slices.Clone(s.ids)
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(slices.Clone(ids))
	}
}
