package recipe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const recipeTableHTML = `
<html><body>
<table id="recipes">
  <thead>
    <tr><th>Title</th><th>Ingredients</th><th>Calories</th><th>Time</th><th>Instructions</th></tr>
  </thead>
  <tbody>
    <tr>
      <td>Arroz con Huevo</td>
      <td>Arroz, Huevo</td>
      <td>310 kcal</td>
      <td>20 min</td>
      <td><ol><li>Cocer el arroz</li><li>Freír el huevo</li></ol></td>
    </tr>
    <tr>
      <td>  Sopa   de Tomate </td>
      <td><ul><li>Tomate</li><li>Cebolla</li></ul></td>
      <td>95,5</td>
      <td>30</td>
      <td>Picar; Hervir ;</td>
    </tr>
    <tr><td></td><td>Queso</td><td>1</td><td>1</td><td></td></tr>
  </tbody>
</table>
</body></html>`

func TestParseRecipeTable(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		recipes, err := ParseRecipeTable(strings.NewReader(recipeTableHTML), "#recipes")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(recipes) != 2 {
			t.Fatalf("Expected 2 recipes (untitled row skipped), got %d", len(recipes))
		}

		first := recipes[0]
		if first.Title != "Arroz con Huevo" {
			t.Errorf("Expected title 'Arroz con Huevo', got '%s'", first.Title)
		}
		if len(first.Ingredients) != 2 || first.Ingredients[1] != "Huevo" {
			t.Errorf("Unexpected ingredients: %v", first.Ingredients)
		}
		if first.Calories != 310 || first.CookingTime != 20 {
			t.Errorf("Expected 310 kcal / 20 min, got %v / %d", first.Calories, first.CookingTime)
		}
		if len(first.Instructions) != 2 || first.Instructions[0] != "Cocer el arroz" {
			t.Errorf("Unexpected instructions: %v", first.Instructions)
		}

		second := recipes[1]
		if second.Title != "Sopa de Tomate" {
			t.Errorf("Expected whitespace collapsed title, got '%s'", second.Title)
		}
		if second.Calories != 95.5 {
			t.Errorf("Expected 95.5 calories, got %v", second.Calories)
		}
		if len(second.Instructions) != 2 || second.Instructions[1] != "Hervir" {
			t.Errorf("Unexpected instructions: %v", second.Instructions)
		}
	})

	t.Run("MissingColumn", func(t *testing.T) {
		html := `<table><tr><th>Name</th></tr><tr><td>x</td></tr></table>`
		_, err := ParseRecipeTable(strings.NewReader(html), "")
		if err == nil || !strings.Contains(err.Error(), "missing required column: title") {
			t.Errorf("Expected missing column error, got %v", err)
		}
	})

	t.Run("NoTable", func(t *testing.T) {
		_, err := ParseRecipeTable(strings.NewReader("<p>nothing</p>"), "")
		if err == nil {
			t.Fatal("Expected an error when no table exists, got nil")
		}
	})
}

func TestCatalogMerge(t *testing.T) {
	c := DefaultCatalog()
	added := c.Merge([]Recipe{
		{Title: "pollo con arroz", Ingredients: []string{"Pollo"}},
		{Title: "Arroz con Huevo", Ingredients: []string{"Arroz", "Huevo"}},
	})

	if added != 1 {
		t.Fatalf("Expected 1 recipe added, got %d", added)
	}
	last := c.Recipes[len(c.Recipes)-1]
	if last.ID != "6" || last.Title != "Arroz con Huevo" {
		t.Errorf("Expected new recipe with id 6, got %+v", last)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Expected merged catalog to be valid, got %v", err)
	}
}

func TestFetchHTML(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, recipeTableHTML)
		}))
		defer server.Close()

		body, err := FetchHTML(context.Background(), server.Client(), server.URL)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if !strings.Contains(string(body), "Arroz con Huevo") {
			t.Error("Expected body to contain the recipe table")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		if _, err := FetchHTML(context.Background(), server.Client(), server.URL); err == nil {
			t.Fatal("Expected an error for non-200 status code, got nil")
		}
	})
}
