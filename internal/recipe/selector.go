package recipe

import (
	"errors"
	"fmt"
)

// Selection bounds for a recipe search.
const (
	MinSelected = 2
	MaxSelected = 5
)

var (
	ErrUnknownIngredient = errors.New("unknown ingredient")
	ErrSelectionFull     = fmt.Errorf("at most %d ingredients can be selected", MaxSelected)
)

// Selector tracks which catalog ingredients the user picked, in pick order.
type Selector struct {
	available []Ingredient
	selected  []Ingredient
}

// NewSelector creates a Selector over the available ingredients.
func NewSelector(available []Ingredient) *Selector {
	return &Selector{available: available}
}

// Toggle deselects the ingredient when it is selected and selects it
// otherwise. It reports whether the ingredient is selected afterwards.
func (s *Selector) Toggle(id string) (bool, error) {
	for i, ing := range s.selected {
		if ing.ID == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return false, nil
		}
	}

	ing, ok := s.lookup(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownIngredient, id)
	}
	if len(s.selected) >= MaxSelected {
		return false, ErrSelectionFull
	}
	s.selected = append(s.selected, ing)
	return true, nil
}

// IsSelected reports whether the ingredient id is selected.
func (s *Selector) IsSelected(id string) bool {
	for _, ing := range s.selected {
		if ing.ID == id {
			return true
		}
	}
	return false
}

// CanSearch reports whether enough ingredients are selected to search.
func (s *Selector) CanSearch() bool {
	return len(s.selected) >= MinSelected
}

// Selected returns a copy of the selected ingredients in pick order.
func (s *Selector) Selected() []Ingredient {
	out := make([]Ingredient, len(s.selected))
	copy(out, s.selected)
	return out
}

// Names returns the names of the selected ingredients.
func (s *Selector) Names() NameSet {
	set := make(NameSet, len(s.selected))
	for _, ing := range s.selected {
		set[ing.Name] = struct{}{}
	}
	return set
}

// Reset clears the selection.
func (s *Selector) Reset() {
	s.selected = nil
}

func (s *Selector) lookup(id string) (Ingredient, bool) {
	for _, ing := range s.available {
		if ing.ID == id {
			return ing, true
		}
	}
	return Ingredient{}, false
}
