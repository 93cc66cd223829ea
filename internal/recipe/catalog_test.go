package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if len(c.Ingredients) != 12 {
		t.Errorf("Expected 12 ingredients, got %d", len(c.Ingredients))
	}
	if len(c.Recipes) != 5 {
		t.Errorf("Expected 5 recipes, got %d", len(c.Recipes))
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Expected built-in catalog to be valid, got %v", err)
	}
}

func TestLoadCatalog(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		c, err := LoadCatalog("")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(c.Recipes) != 5 {
			t.Errorf("Expected built-in catalog, got %d recipes", len(c.Recipes))
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(c.Ingredients) != 12 {
			t.Errorf("Expected built-in catalog, got %d ingredients", len(c.Ingredients))
		}
	})

	t.Run("SaveLoad", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog", "catalog.yaml")
		c := DefaultCatalog()
		c.Recipes = c.Recipes[:2]

		if err := c.Save(path); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		loaded, err := LoadCatalog(path)
		if err != nil {
			t.Fatalf("LoadCatalog failed: %v", err)
		}

		if len(loaded.Recipes) != 2 {
			t.Fatalf("Expected 2 recipes, got %d", len(loaded.Recipes))
		}
		r := loaded.Recipes[1]
		if r.Title != "Tortilla de Papa" || r.CookingTime != 25 || len(r.Instructions) != 4 {
			t.Errorf("Unexpected recipe after round trip: %+v", r)
		}
		ing, ok := loaded.Ingredient("11")
		if !ok || ing.Name != "Aguacate" || ing.CaloriesPer100g != 160 {
			t.Errorf("Unexpected ingredient after round trip: %+v", ing)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		data := `
ingredients:
  - id: "1"
    name: Pollo
recipes:
  - id: "1"
    title: Vacía
`
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadCatalog(path)
		if err == nil {
			t.Fatal("Expected an error for a recipe without ingredients, got nil")
		}
		if !strings.Contains(err.Error(), "has no ingredients") {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}

func TestCatalogLookups(t *testing.T) {
	c := DefaultCatalog()

	t.Run("Recipe", func(t *testing.T) {
		r, err := c.Recipe("3")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if r.Title != "Ensalada de Pollo" {
			t.Errorf("Expected 'Ensalada de Pollo', got '%s'", r.Title)
		}

		if _, err := c.Recipe("42"); !errors.Is(err, ErrRecipeNotFound) {
			t.Errorf("Expected ErrRecipeNotFound, got %v", err)
		}
	})

	t.Run("IngredientsByID", func(t *testing.T) {
		ings, err := c.IngredientsByID([]string{"6", "1"})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if ings[0].Name != "Queso" || ings[1].Name != "Pollo" {
			t.Errorf("Expected [Queso Pollo], got %v", ings)
		}

		if _, err := c.IngredientsByID([]string{"1", "77"}); !errors.Is(err, ErrUnknownIngredient) {
			t.Errorf("Expected ErrUnknownIngredient, got %v", err)
		}
	})

	t.Run("RecipesByID", func(t *testing.T) {
		got := c.RecipesByID([]string{"5", "1", "missing"})
		if len(got) != 2 || got[0].ID != "1" || got[1].ID != "5" {
			t.Errorf("Expected [1 5] in catalog order, got %v", ids(got))
		}
	})
}
