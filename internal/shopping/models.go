package shopping

import (
	"strings"
	"time"
)

// Item is one line of the shopping list.
type Item struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// ItemUpdate carries the fields UpdateItem merges into an item. Nil fields
// are left untouched, as are blank names and units and quantities <= 0.
type ItemUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Quantity  *float64 `json:"quantity,omitempty"`
	Unit      *string  `json:"unit,omitempty"`
	Completed *bool    `json:"completed,omitempty"`
}

func (u ItemUpdate) apply(it *Item) {
	if u.Name != nil {
		if name := strings.TrimSpace(*u.Name); name != "" {
			it.Name = name
		}
	}
	if u.Quantity != nil && *u.Quantity > 0 {
		it.Quantity = *u.Quantity
	}
	if u.Unit != nil {
		if unit := strings.TrimSpace(*u.Unit); unit != "" {
			it.Unit = unit
		}
	}
	if u.Completed != nil {
		it.Completed = *u.Completed
	}
}
