package app

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"recipe-finder/internal/favorites"
	"recipe-finder/internal/metrics"
	"recipe-finder/internal/recipe"
	"recipe-finder/internal/shopping"
)

var (
	// ErrTooFewIngredients is returned by Search below recipe.MinSelected.
	ErrTooFewIngredients = fmt.Errorf("select at least %d ingredients", recipe.MinSelected)
	// ErrTooManyIngredients is returned by Search above recipe.MaxSelected.
	ErrTooManyIngredients = fmt.Errorf("select at most %d ingredients", recipe.MaxSelected)
)

// SearchResult is the outcome of a search: the selected ingredients, their
// calorie chart and the matching recipes in catalog order.
type SearchResult struct {
	Ingredients []recipe.Ingredient `json:"ingredients"`
	Chart       []recipe.Bar        `json:"chart"`
	Recipes     []recipe.Recipe     `json:"recipes"`
}

// App holds the application's dependencies.
type App struct {
	catalog   *recipe.Catalog
	shopping  *shopping.Store
	favorites *favorites.Service
	health    *metrics.Collector
	logger    *zap.Logger

	closers []func() error
}

// NewApp creates and initializes a new App instance.
func NewApp(
	catalog *recipe.Catalog,
	shoppingStore *shopping.Store,
	favoritesService *favorites.Service,
	health *metrics.Collector,
	logger *zap.Logger,
) *App {
	return &App{
		catalog:   catalog,
		shopping:  shoppingStore,
		favorites: favoritesService,
		health:    health,
		logger:    logger,
	}
}

// Catalog returns the recipe catalog.
func (a *App) Catalog() *recipe.Catalog { return a.catalog }

// Shopping returns the shopping list store.
func (a *App) Shopping() *shopping.Store { return a.shopping }

// Favorites returns the favorites service.
func (a *App) Favorites() *favorites.Service { return a.favorites }

// Health returns a health snapshot.
func (a *App) Health() metrics.SysHealth { return a.health.Snapshot() }

// Search finds the recipes sharing at least one ingredient with the
// selected ingredient ids. Between recipe.MinSelected and
// recipe.MaxSelected distinct ids are required.
func (a *App) Search(ingredientIDs []string) (*SearchResult, error) {
	ids := dedupe(ingredientIDs)
	if len(ids) < recipe.MinSelected {
		return nil, ErrTooFewIngredients
	}
	if len(ids) > recipe.MaxSelected {
		return nil, ErrTooManyIngredients
	}

	sel := recipe.NewSelector(a.catalog.Ingredients)
	for _, id := range ids {
		if _, err := sel.Toggle(id); err != nil {
			return nil, err
		}
	}

	selected := sel.Selected()
	names := make([]string, len(selected))
	for i, ing := range selected {
		names[i] = ing.Name
	}
	recipes := recipe.Match(a.catalog.Recipes, sel.Names())
	a.logger.Debug("search completed", zap.Strings("ingredients", names), zap.Int("matches", len(recipes)))

	return &SearchResult{
		Ingredients: selected,
		Chart:       recipe.ChartBars(selected),
		Recipes:     recipes,
	}, nil
}

// AddRecipeToShoppingList adds one unit of every ingredient of the recipe
// to the shopping list and returns the resulting list.
func (a *App) AddRecipeToShoppingList(recipeID string) ([]shopping.Item, error) {
	r, err := a.catalog.Recipe(recipeID)
	if err != nil {
		return nil, err
	}
	for _, name := range r.Ingredients {
		if _, err := a.shopping.Add(name); err != nil && !errors.Is(err, shopping.ErrEmptyName) {
			return nil, fmt.Errorf("failed to add %q: %w", name, err)
		}
	}
	return a.shopping.Items(), nil
}

// ToggleFavorite flips the favorite flag of a catalog recipe and reports
// whether it is now a favorite.
func (a *App) ToggleFavorite(recipeID string) (bool, error) {
	if _, err := a.catalog.Recipe(recipeID); err != nil {
		return false, err
	}
	return a.favorites.Toggle(recipeID), nil
}

// SetFavorite marks or unmarks a catalog recipe.
func (a *App) SetFavorite(recipeID string, favorite bool) error {
	if _, err := a.catalog.Recipe(recipeID); err != nil {
		return err
	}
	if favorite {
		a.favorites.Add(recipeID)
	} else {
		a.favorites.Remove(recipeID)
	}
	return nil
}

// FavoriteRecipes returns the favorite recipes in catalog order. Ids that
// are not in the catalog are skipped.
func (a *App) FavoriteRecipes() []recipe.Recipe {
	return a.catalog.RecipesByID(a.favorites.IDs())
}

// Close waits for pending writes and releases the app's resources.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
