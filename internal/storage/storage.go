// Package storage holds the persistence providers the shopping list and the
// favorites service write through: key-value stores for serialized lists and
// document stores for the favorites set.
package storage

import (
	"context"
	"sync"
)

// KeyValueStore persists string values under string keys.
type KeyValueStore interface {
	// Get returns the value for key. found is false when the key was never set.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Document is the body of a favorites document.
type Document struct {
	RecipeIDs []string `json:"recipeIds"`
}

// DocumentStore persists whole documents addressed by collection and id.
type DocumentStore interface {
	// GetDocument returns nil, nil when the document does not exist.
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	SetDocument(ctx context.Context, collection, id string, doc Document) error
}

// MemoryStore is an in-process KeyValueStore.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// MemoryDocumentStore is an in-process DocumentStore.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryDocumentStore creates an empty MemoryDocumentStore.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string]Document)}
}

func (s *MemoryDocumentStore) GetDocument(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[collection+"/"+id]
	if !ok {
		return nil, nil
	}
	ids := make([]string, len(doc.RecipeIDs))
	copy(ids, doc.RecipeIDs)
	return &Document{RecipeIDs: ids}, nil
}

func (s *MemoryDocumentStore) SetDocument(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(doc.RecipeIDs))
	copy(ids, doc.RecipeIDs)
	s.docs[collection+"/"+id] = Document{RecipeIDs: ids}
	return nil
}
