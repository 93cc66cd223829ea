package recipe

import "math"

// Bar heights of the calorie chart, in pixels.
const (
	MinBarHeight = 20.0
	MaxBarHeight = 150.0
)

// Bar is one column of the calories-per-100g chart.
type Bar struct {
	IngredientID string  `json:"ingredientId"`
	Name         string  `json:"name"`
	Calories     float64 `json:"calories"`
	Height       float64 `json:"height"`
}

// ChartBars scales each ingredient against the most caloric one. Bars never
// drop below MinBarHeight.
func ChartBars(selected []Ingredient) []Bar {
	maxCal := 0.0
	for _, ing := range selected {
		maxCal = math.Max(maxCal, ing.CaloriesPer100g)
	}

	bars := make([]Bar, 0, len(selected))
	for _, ing := range selected {
		height := MinBarHeight
		if maxCal > 0 {
			height = math.Max(MinBarHeight, ing.CaloriesPer100g/maxCal*MaxBarHeight)
		}
		bars = append(bars, Bar{
			IngredientID: ing.ID,
			Name:         ing.Name,
			Calories:     ing.CaloriesPer100g,
			Height:       height,
		})
	}
	return bars
}
