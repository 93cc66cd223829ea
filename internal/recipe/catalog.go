package recipe

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrRecipeNotFound is returned when a recipe id is not in the catalog.
var ErrRecipeNotFound = errors.New("recipe not found")

// Catalog is the read-only set of ingredients and recipes the app serves.
type Catalog struct {
	Ingredients []Ingredient `yaml:"ingredients"`
	Recipes     []Recipe     `yaml:"recipes"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Ingredients: []Ingredient{
			{ID: "1", Name: "Pollo", Emoji: "🐔", CaloriesPer100g: 165},
			{ID: "2", Name: "Tomate", Emoji: "🍅", CaloriesPer100g: 18},
			{ID: "3", Name: "Cebolla", Emoji: "🧅", CaloriesPer100g: 40},
			{ID: "4", Name: "Arroz", Emoji: "🍚", CaloriesPer100g: 130},
			{ID: "5", Name: "Huevo", Emoji: "🥚", CaloriesPer100g: 155},
			{ID: "6", Name: "Queso", Emoji: "🧀", CaloriesPer100g: 113},
			{ID: "7", Name: "Papa", Emoji: "🥔", CaloriesPer100g: 77},
			{ID: "8", Name: "Zanahoria", Emoji: "🥕", CaloriesPer100g: 41},
			{ID: "9", Name: "Pasta", Emoji: "🍝", CaloriesPer100g: 220},
			{ID: "10", Name: "Pescado", Emoji: "🐟", CaloriesPer100g: 206},
			{ID: "11", Name: "Aguacate", Emoji: "🥑", CaloriesPer100g: 160},
			{ID: "12", Name: "Espinaca", Emoji: "🥬", CaloriesPer100g: 23},
		},
		Recipes: []Recipe{
			{
				ID:          "1",
				Title:       "Pollo con Arroz",
				Ingredients: []string{"Pollo", "Arroz", "Cebolla"},
				Calories:    320,
				CookingTime: 30,
				Instructions: []string{
					"Cortar el pollo en trozos pequeños",
					"Sofreír la cebolla hasta dorar",
					"Agregar el pollo y cocinar 10 minutos",
					"Añadir el arroz y agua, cocinar 20 minutos",
				},
			},
			{
				ID:          "2",
				Title:       "Tortilla de Papa",
				Ingredients: []string{"Huevo", "Papa", "Cebolla"},
				Calories:    280,
				CookingTime: 25,
				Instructions: []string{
					"Pelar y cortar las papas en rodajas",
					"Freír las papas con cebolla",
					"Batir los huevos y mezclar con papas",
					"Cocinar en sartén hasta cuajar",
				},
			},
			{
				ID:          "3",
				Title:       "Ensalada de Pollo",
				Ingredients: []string{"Pollo", "Tomate", "Aguacate"},
				Calories:    250,
				CookingTime: 15,
				Instructions: []string{
					"Cocinar el pollo a la plancha",
					"Cortar tomates y aguacate",
					"Mezclar todos los ingredientes",
					"Aliñar con aceite y limón",
				},
			},
			{
				ID:          "4",
				Title:       "Pasta con Queso",
				Ingredients: []string{"Pasta", "Queso", "Tomate"},
				Calories:    380,
				CookingTime: 20,
				Instructions: []string{
					"Hervir la pasta según instrucciones",
					"Derretir el queso en sartén",
					"Agregar tomate picado",
					"Mezclar con la pasta caliente",
				},
			},
			{
				ID:          "5",
				Title:       "Pescado con Vegetales",
				Ingredients: []string{"Pescado", "Zanahoria", "Espinaca"},
				Calories:    290,
				CookingTime: 35,
				Instructions: []string{
					"Cocinar el pescado al horno",
					"Saltear zanahorias en sartén",
					"Agregar espinacas al final",
					"Servir junto al pescado",
				},
			},
		},
	}
}

// LoadCatalog reads a YAML catalog. An empty path or a missing file yields
// the built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCatalog(), nil
		}
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return &c, nil
}

// Save writes the catalog as YAML.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Validate checks id uniqueness and required fields.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		if ing.ID == "" || ing.Name == "" {
			return fmt.Errorf("ingredient %q: id and name are required", ing.ID)
		}
		if _, dup := seen[ing.ID]; dup {
			return fmt.Errorf("duplicate ingredient id %q", ing.ID)
		}
		seen[ing.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(c.Recipes))
	for _, r := range c.Recipes {
		if r.ID == "" || r.Title == "" {
			return fmt.Errorf("recipe %q: id and title are required", r.ID)
		}
		if len(r.Ingredients) == 0 {
			return fmt.Errorf("recipe %q has no ingredients", r.ID)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// Ingredient looks up an ingredient by id.
func (c *Catalog) Ingredient(id string) (Ingredient, bool) {
	for _, ing := range c.Ingredients {
		if ing.ID == id {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// IngredientsByID resolves ids in order, failing on the first unknown id.
func (c *Catalog) IngredientsByID(ids []string) ([]Ingredient, error) {
	out := make([]Ingredient, 0, len(ids))
	for _, id := range ids {
		ing, ok := c.Ingredient(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownIngredient, id)
		}
		out = append(out, ing)
	}
	return out, nil
}

// Recipe looks up a recipe by id.
func (c *Catalog) Recipe(id string) (Recipe, error) {
	for _, r := range c.Recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return Recipe{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
}

// RecipesByID returns the catalog recipes whose ids are in ids, in catalog
// order. Unknown ids are ignored.
func (c *Catalog) RecipesByID(ids []string) []Recipe {
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]Recipe, 0, len(ids))
	for _, r := range c.Recipes {
		if _, ok := want[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}
