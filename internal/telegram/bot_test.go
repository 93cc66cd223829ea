package telegram

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"recipe-finder/internal/app"
	"recipe-finder/internal/config"
	"recipe-finder/internal/favorites"
	"recipe-finder/internal/metrics"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
	"recipe-finder/internal/storage"
)

const chatID = int64(42)

func newTestBot(t *testing.T) *Bot {
	t.Helper()
	logger := zap.NewNop()
	w := storage.NewWriter(logger, time.Second)
	t.Cleanup(func() { w.Close() })

	a := app.NewApp(
		recipe.DefaultCatalog(),
		shopping.NewStore(context.Background(), storage.NewMemoryStore(), w, logger),
		favorites.NewService(storage.NewMemoryDocumentStore(), w, logger),
		metrics.NewCollector(""),
		logger,
	)
	return newBot(&config.Config{TelegramAllowedUserIDs: []int64{1}}, a, logger)
}

func expectContains(t *testing.T, got reply, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got.text, w) {
			t.Errorf("Expected reply to contain '%s', got:\n%s", w, got.text)
		}
	}
}

func TestHandleCommand_Recipes(t *testing.T) {
	b := newTestBot(t)

	t.Run("Ingredients", func(t *testing.T) {
		expectContains(t, b.handleCommand(chatID, "/ingredients"), "1. 🐔 Pollo (165 kcal/100g)", "12. 🥬 Espinaca")
	})

	t.Run("Search", func(t *testing.T) {
		got := b.handleCommand(chatID, "/search 1 6")
		expectContains(t, got, "3 recipes found", "1. Pollo con Arroz", "4. Pasta con Queso")
		if strings.Contains(got.text, "Pescado con Vegetales") {
			t.Errorf("Expected no unrelated recipes, got:\n%s", got.text)
		}
	})

	t.Run("SearchTooFew", func(t *testing.T) {
		expectContains(t, b.handleCommand(chatID, "/search 1"), "Select at least 2 ingredients")
	})

	t.Run("RecipeAndFavorite", func(t *testing.T) {
		expectContains(t, b.handleCommand(chatID, "/fav 2"), "Tortilla de Papa added to favorites")
		expectContains(t, b.handleCommand(chatID, "/recipe 2"), "Tortilla de Papa ⭐", "• Huevo", "1. Pelar")
		expectContains(t, b.handleCommand(chatID, "/favorites"), "2. Tortilla de Papa")
		expectContains(t, b.handleCommand(chatID, "/fav 2"), "removed from favorites")
		expectContains(t, b.handleCommand(chatID, "/favorites"), "No favorites yet")
	})

	t.Run("UnknownRecipe", func(t *testing.T) {
		expectContains(t, b.handleCommand(chatID, "/recipe 77"), "Recipe not found")
	})
}

func TestHandleCommand_ShoppingList(t *testing.T) {
	b := newTestBot(t)

	expectContains(t, b.handleCommand(chatID, "/list"), "empty")
	expectContains(t, b.handleCommand(chatID, "/add Leche entera 1,5 l"), "Leche entera (1.5 l)")
	expectContains(t, b.handleCommand(chatID, "/add Tomate"), "Tomate (1 unit)")
	expectContains(t, b.handleCommand(chatID, "/add tomate 2"), "Tomate (3 unit)")

	expectContains(t, b.handleCommand(chatID, "/done 2"), "✅ Tomate")
	expectContains(t, b.handleCommand(chatID, "/list"), "1. ⬜ Leche entera (1.5 l)", "2. ✅ Tomate (3 unit)")

	got := b.handleCommand(chatID, "/export")
	expectContains(t, got, "- Leche entera (1.5 l)")
	if strings.Contains(got.text, "Tomate") || !got.attachXLSX {
		t.Errorf("Expected export of pending items with spreadsheet, got %+v", got)
	}

	expectContains(t, b.handleCommand(chatID, "/clear"), "1. ⬜ Leche entera")
	expectContains(t, b.handleCommand(chatID, "/remove 5"), "Usage: /remove")
	expectContains(t, b.handleCommand(chatID, "/remove 1"), "Leche entera removed")
	expectContains(t, b.handleCommand(chatID, "/export"), "Nothing pending")

	expectContains(t, b.handleCommand(chatID, "/shop 1"), "1. ⬜ Pollo", "3. ⬜ Cebolla")
	expectContains(t, b.handleCommand(chatID, "/clearall"), "emptied")
	if total, _ := b.app.Shopping().Counts(); total != 0 {
		t.Errorf("Expected empty list, got %d items", total)
	}
}

func TestHandleCommand_Edit(t *testing.T) {
	b := newTestBot(t)
	b.handleCommand(chatID, "/add Pan")

	t.Run("Save", func(t *testing.T) {
		expectContains(t, b.handleCommand(chatID, "/edit 1"), "Editing Pan (1 unit)")
		expectContains(t, b.handleCommand(chatID, "Pan integral 2 barras"), "Pan integral (2 barras)")

		item := b.app.Shopping().Items()[0]
		if item.Name != "Pan integral" || item.Quantity != 2 || item.Unit != "barras" {
			t.Errorf("Expected edited item, got %+v", item)
		}
		// The next plain message is not an edit anymore.
		expectContains(t, b.handleCommand(chatID, "hello"), "/ingredients")
	})

	t.Run("Cancel", func(t *testing.T) {
		b.handleCommand(chatID, "/edit 1")
		expectContains(t, b.handleCommand(chatID, "/cancel"), "Edit cancelled")
		expectContains(t, b.handleCommand(chatID, "/cancel"), "Nothing to cancel")
		if name := b.app.Shopping().Items()[0].Name; name != "Pan integral" {
			t.Errorf("Expected name unchanged, got '%s'", name)
		}
	})

	t.Run("RemovedWhileEditing", func(t *testing.T) {
		b.handleCommand(chatID, "/edit 1")
		b.handleCommand(chatID, "/remove 1")
		expectContains(t, b.handleCommand(chatID, "Pan"), "no longer on the list")
	})
}

func TestHandleCommand_Status(t *testing.T) {
	b := newTestBot(t)
	b.handleCommand(chatID, "/add Pan")

	expectContains(t, b.handleCommand(chatID, "/status"), "Items: 1 (0 completed)", "Favorites: 0", "Goroutines:")
	expectContains(t, b.handleCommand(chatID, "/nope"), "Unknown command /nope")
}

func TestParseItemArgs(t *testing.T) {
	tests := []struct {
		args []string
		name string
		qty  float64
		unit string
	}{
		{[]string{"Pan"}, "Pan", 0, ""},
		{[]string{"Leche", "entera", "2", "l"}, "Leche entera", 2, "l"},
		{[]string{"Arroz", "0,5", "kg"}, "Arroz", 0.5, "kg"},
		{[]string{"7", "Up"}, "7 Up", 0, ""},
	}
	for _, tt := range tests {
		name, qty, unit, err := parseItemArgs(tt.args)
		if err != nil {
			t.Fatalf("Expected no error for %v, got %v", tt.args, err)
		}
		if name != tt.name || qty != tt.qty || unit != tt.unit {
			t.Errorf("parseItemArgs(%v): expected (%s, %v, %s), got (%s, %v, %s)", tt.args, tt.name, tt.qty, tt.unit, name, qty, unit)
		}
	}
}
