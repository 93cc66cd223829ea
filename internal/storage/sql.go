package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQLStore is a KeyValueStore backed by the kv_entries table.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a new SQLStore. The schema is created by the database
// package migrations.
func NewSQLStore(d *sql.DB) *SQLStore {
	return &SQLStore{db: d}
}

// Get retrieves the value stored for key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

// Set inserts or replaces the value for key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// SQLDocumentStore is a DocumentStore backed by the documents table. It is
// the local stand-in for the remote document service.
type SQLDocumentStore struct {
	db *sql.DB
}

// NewSQLDocumentStore creates a new SQLDocumentStore.
func NewSQLDocumentStore(d *sql.DB) *SQLDocumentStore {
	return &SQLDocumentStore{db: d}
}

// GetDocument retrieves a document by collection and id.
func (s *SQLDocumentStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Document not found
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s/%s: %w", collection, id, err)
	}
	return &doc, nil
}

// SetDocument replaces a document.
func (s *SQLDocumentStore) SetDocument(ctx context.Context, collection, id string, doc Document) error {
	if doc.RecipeIDs == nil {
		doc.RecipeIDs = []string{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, id, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", collection, id, err)
	}
	return nil
}
