package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Shopping list providers.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath    string
	CatalogPath     string
	ShoppingStore   string
	ShoppingFileDir string

	// Remote favorites document service. Empty URL keeps favorites in sqlite.
	FavoritesURL    string
	FavoritesSecret string

	WriteTimeout time.Duration
	LogLevel     string
	Port         string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	shoppingStore := getEnv("SHOPPING_STORE", StoreSQLite)
	switch shoppingStore {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		return nil, fmt.Errorf("SHOPPING_STORE must be one of sqlite, file, memory, got %q", shoppingStore)
	}

	favoritesURL := os.Getenv("FAVORITES_URL")
	favoritesSecret := os.Getenv("FAVORITES_SECRET")
	if favoritesURL != "" && favoritesSecret == "" {
		return nil, fmt.Errorf("FAVORITES_SECRET environment variable not set")
	}

	writeTimeout, err := time.ParseDuration(getEnv("WRITE_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return nil, fmt.Errorf("WRITE_TIMEOUT must be positive, got %s", writeTimeout)
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOWED_USER_IDS"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse TELEGRAM_ALLOWED_USER_IDS: %w", err)
	}

	return &Config{
		DatabasePath:           getEnv("DATABASE_PATH", "data/recipe-finder.db"),
		CatalogPath:            os.Getenv("CATALOG_PATH"),
		ShoppingStore:          shoppingStore,
		ShoppingFileDir:        getEnv("SHOPPING_FILE_DIR", "data/kv"),
		FavoritesURL:           favoritesURL,
		FavoritesSecret:        favoritesSecret,
		WriteTimeout:           writeTimeout,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		Port:                   getEnv("PORT", "8080"),
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
	}, nil
}

// ValidateTelegram checks the variables the bot binary needs.
func (c *Config) ValidateTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

// IsAllowedUser reports whether the bot may serve userID. An empty allow
// list serves nobody.
func (c *Config) IsAllowedUser(userID int64) bool {
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
