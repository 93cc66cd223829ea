package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "data/recipe-finder.db" {
			t.Errorf("Expected DatabasePath to be 'data/recipe-finder.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.ShoppingStore != StoreSQLite {
			t.Errorf("Expected ShoppingStore to be '%s', got '%s'", StoreSQLite, cfg.ShoppingStore)
		}
		if cfg.ShoppingFileDir != "data/kv" {
			t.Errorf("Expected ShoppingFileDir to be 'data/kv', got '%s'", cfg.ShoppingFileDir)
		}
		if cfg.WriteTimeout != 10*time.Second {
			t.Errorf("Expected WriteTimeout to be 10s, got %s", cfg.WriteTimeout)
		}
		if cfg.Port != "8080" {
			t.Errorf("Expected Port to be '8080', got '%s'", cfg.Port)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Expected LogLevel to be 'info', got '%s'", cfg.LogLevel)
		}
	})

	t.Run("Success", func(t *testing.T) {
		t.Setenv("DATABASE_PATH", "/tmp/app.db")
		t.Setenv("SHOPPING_STORE", "file")
		t.Setenv("FAVORITES_URL", "http://docs.test")
		t.Setenv("FAVORITES_SECRET", "secret")
		t.Setenv("WRITE_TIMEOUT", "2s")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DatabasePath != "/tmp/app.db" {
			t.Errorf("Expected DatabasePath to be '/tmp/app.db', got '%s'", cfg.DatabasePath)
		}
		if cfg.ShoppingStore != StoreFile {
			t.Errorf("Expected ShoppingStore to be 'file', got '%s'", cfg.ShoppingStore)
		}
		if cfg.FavoritesURL != "http://docs.test" {
			t.Errorf("Expected FavoritesURL to be 'http://docs.test', got '%s'", cfg.FavoritesURL)
		}
		if cfg.WriteTimeout != 2*time.Second {
			t.Errorf("Expected WriteTimeout to be 2s, got %s", cfg.WriteTimeout)
		}
		if !cfg.IsAllowedUser(34) || cfg.IsAllowedUser(56) {
			t.Errorf("Expected allowed users [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
	})

	t.Run("MissingFavoritesSecret", func(t *testing.T) {
		t.Setenv("FAVORITES_URL", "http://docs.test")
		t.Setenv("FAVORITES_SECRET", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing FAVORITES_SECRET, got nil")
		}
		expectedError := "FAVORITES_SECRET environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("InvalidShoppingStore", func(t *testing.T) {
		t.Setenv("SHOPPING_STORE", "redis")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unknown SHOPPING_STORE, got nil")
		}
	})

	t.Run("InvalidWriteTimeout", func(t *testing.T) {
		t.Setenv("WRITE_TIMEOUT", "soon")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid WRITE_TIMEOUT, got nil")
		}
	})

	t.Run("InvalidUserIDs", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid TELEGRAM_ALLOWED_USER_IDS, got nil")
		}
	})
}

func TestValidateTelegram(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		cfg := &Config{TelegramWebhookURL: "https://bot.test"}
		err := cfg.ValidateTelegram()
		if err == nil || err.Error() != "TELEGRAM_BOT_TOKEN environment variable not set" {
			t.Fatalf("Expected missing token error, got %v", err)
		}
	})

	t.Run("MissingWebhook", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token"}
		err := cfg.ValidateTelegram()
		if err == nil || err.Error() != "TELEGRAM_WEBHOOK_URL environment variable not set" {
			t.Fatalf("Expected missing webhook error, got %v", err)
		}
	})

	t.Run("Success", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://bot.test"}
		if err := cfg.ValidateTelegram(); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	})
}
