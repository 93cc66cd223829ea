// Package docstore is a client for the remote JSON document service that
// holds the favorites document.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recipe-finder/internal/config"
	"recipe-finder/internal/storage"
)

// Audience is the aud claim of every request token.
const Audience = "recipe-finder"

const tokenTTL = 5 * time.Minute

// Client reads and writes documents at {baseURL}/v1/{collection}/{id}.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secret     []byte
	now        func() time.Time
}

var _ storage.DocumentStore = (*Client)(nil)

// NewClient creates a client for cfg.FavoritesURL signing its tokens with
// cfg.FavoritesSecret.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(cfg.FavoritesURL, "/"),
		secret:     []byte(cfg.FavoritesSecret),
		now:        time.Now,
	}
}

// GetDocument fetches a document. A 404 reports an absent document as
// nil, nil.
func (c *Client) GetDocument(ctx context.Context, collection, id string) (*storage.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, collection, id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document api error: status %d", resp.StatusCode)
	}

	var doc storage.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if doc.RecipeIDs == nil {
		doc.RecipeIDs = []string{}
	}
	return &doc, nil
}

// SetDocument replaces a document.
func (c *Client) SetDocument(ctx context.Context, collection, id string, doc storage.Document) error {
	if doc.RecipeIDs == nil {
		doc.RecipeIDs = []string{}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, collection, id, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
		var errResp interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("document api error: status %d, body: %v", resp.StatusCode, errResp)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, collection, id string, body []byte) (*http.Request, error) {
	token, err := c.createToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	u := fmt.Sprintf("%s/v1/%s/%s", c.baseURL, url.PathEscape(collection), url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// createToken generates a short-lived HS256 JWT.
func (c *Client) createToken() (string, error) {
	if len(c.secret) == 0 {
		return "", fmt.Errorf("empty signing secret")
	}
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"aud": Audience,
	})
	return token.SignedString(c.secret)
}
