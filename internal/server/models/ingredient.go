package models

import "time"

// Ingredient is shared reference data: unique by name (case-insensitive)
// and not owner-scoped.
type Ingredient struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
