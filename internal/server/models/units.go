package models

import (
	"sort"
	"strings"
)

// Validation limits mirrored by the API schemas.
const (
	MaxEmailLength      = 255
	MinPasswordLength   = 8
	MaxPasswordLength   = 128
	MaxIngredientName   = 100
	MaxRecipeTitle      = 200
	MaxRecipeSteps      = 10000
	MaxRecipeItems      = 100
	MaxIngredientAmount = 999999.99
)

// allowedUnits is the fixed set of measurement units accepted for recipe
// ingredients.
var allowedUnits = map[string]struct{}{
	"g":    {},
	"kg":   {},
	"ml":   {},
	"l":    {},
	"tsp":  {},
	"tbsp": {},
	"pcs":  {},
}

// IsAllowedUnit reports whether unit belongs to the fixed unit set.
func IsAllowedUnit(unit string) bool {
	_, ok := allowedUnits[unit]
	return ok
}

// AllowedUnitList returns the allowed units sorted alphabetically, for use
// in validation messages.
func AllowedUnitList() []string {
	units := make([]string, 0, len(allowedUnits))
	for u := range allowedUnits {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}

// NormalizeName lowercases and trims an ingredient name for case-insensitive
// comparison and lookups.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
