package recipe

// Ingredient is a catalog entry the user can pick in the selector.
type Ingredient struct {
	ID              string  `json:"id" yaml:"id"`
	Name            string  `json:"name" yaml:"name"`
	Emoji           string  `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	CaloriesPer100g float64 `json:"caloriesPer100g" yaml:"calories_per_100g"`
}

// Recipe is an immutable catalog recipe. Ingredients holds ingredient names,
// not ids, and is compared verbatim by Match.
type Recipe struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Ingredients  []string `json:"ingredients" yaml:"ingredients"`
	Calories     float64  `json:"calories" yaml:"calories"`
	CookingTime  int      `json:"cookingTime" yaml:"cooking_time"` // minutes
	Instructions []string `json:"instructions" yaml:"instructions"`
	Image        string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// NameSet is a set of ingredient names.
type NameSet map[string]struct{}

// NewNameSet builds a NameSet from the given names.
func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Match returns the recipes of catalog sharing at least one ingredient name
// with selected, in catalog order. Names are compared case-sensitively.
func Match(catalog []Recipe, selected NameSet) []Recipe {
	matches := make([]Recipe, 0)
	for _, r := range catalog {
		if matchCount(r, selected) >= 1 {
			matches = append(matches, r)
		}
	}
	return matches
}

func matchCount(r Recipe, selected NameSet) int {
	count := 0
	for _, ing := range r.Ingredients {
		if selected.Has(ing) {
			count++
		}
	}
	return count
}
