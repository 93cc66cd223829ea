package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"recipe-finder/internal/config"
	"recipe-finder/internal/storage"
)

const testSecret = "test-secret"

// checkToken fails the test unless r carries a valid bearer token.
func checkToken(t *testing.T, r *http.Request) {
	t.Helper()
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		t.Fatalf("Expected bearer token, got '%s'", header)
	}

	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience(Audience), jwt.WithExpirationRequired())
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if !token.Valid {
		t.Fatal("Expected token to be valid")
	}
}

func newTestClient(url string) *Client {
	return NewClient(&config.Config{FavoritesURL: url + "/", FavoritesSecret: testSecret})
}

func TestGetDocument(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			checkToken(t, r)
			if r.Method != http.MethodGet {
				t.Errorf("Expected GET, got %s", r.Method)
			}
			if r.URL.Path != "/v1/favorites/user-favorites" {
				t.Errorf("Expected path '/v1/favorites/user-favorites', got '%s'", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"recipeIds": ["1", "4"]}`)
		}))
		defer server.Close()

		doc, err := newTestClient(server.URL).GetDocument(context.Background(), "favorites", "user-favorites")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if doc == nil || len(doc.RecipeIDs) != 2 || doc.RecipeIDs[1] != "4" {
			t.Fatalf("Expected recipe ids [1 4], got %+v", doc)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		doc, err := newTestClient(server.URL).GetDocument(context.Background(), "favorites", "user-favorites")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if doc != nil {
			t.Fatalf("Expected nil document, got %+v", doc)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).GetDocument(context.Background(), "favorites", "user-favorites")
		if err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})
}

func TestSetDocument(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		var got storage.Document
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			checkToken(t, r)
			if r.Method != http.MethodPut {
				t.Errorf("Expected PUT, got %s", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("Failed to decode body: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		err := newTestClient(server.URL).SetDocument(context.Background(), "favorites", "user-favorites", storage.Document{RecipeIDs: []string{"2"}})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(got.RecipeIDs) != 1 || got.RecipeIDs[0] != "2" {
			t.Fatalf("Expected body recipeIds [2], got %v", got.RecipeIDs)
		}
	})

	t.Run("EmptySetIsSentAsArray", func(t *testing.T) {
		var raw string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			raw = string(body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		if err := newTestClient(server.URL).SetDocument(context.Background(), "favorites", "user-favorites", storage.Document{}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if raw != `{"recipeIds":[]}` {
			t.Fatalf("Expected empty array body, got '%s'", raw)
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprintln(w, `{"error": "bad token"}`)
		}))
		defer server.Close()

		err := newTestClient(server.URL).SetDocument(context.Background(), "favorites", "user-favorites", storage.Document{})
		if err == nil {
			t.Fatal("Expected an error for 401, got nil")
		}
	})
}
