package models

import "time"

// Recipe is owned exclusively by its creator. Every read or mutation must
// verify the requesting identity equals OwnerID before any field leaves the
// service layer.
type Recipe struct {
	ID          string
	OwnerID     string
	Title       string
	Steps       string
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient links a recipe to an ingredient with an amount and unit.
// Position preserves the order the client submitted.
type RecipeIngredient struct {
	IngredientID string
	Amount       float64
	Unit         string
	Position     int
}
