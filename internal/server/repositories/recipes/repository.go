package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	// Create inserts a recipe and its ingredient rows. Multi-statement, so it
	// must run on a transactional DBTX.
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)

	// GetByID returns a recipe with its ingredient rows regardless of owner.
	// The caller is responsible for the ownership check before the recipe
	// leaves the service layer.
	GetByID(ctx context.Context, id string) (*models.Recipe, error)

	// ListByOwner returns the owner's recipes, optionally restricted to those
	// referencing the ingredient with the given name (case-insensitive).
	ListByOwner(ctx context.Context, ownerID, ingredientName string) ([]*models.Recipe, error)

	// Update overwrites title, steps, and the ingredient rows of an existing
	// recipe. Multi-statement, so it must run on a transactional DBTX.
	Update(ctx context.Context, recipe *models.Recipe) error

	// Delete removes a recipe by id. A missing recipe yields common.ErrorNotFound.
	Delete(ctx context.Context, id string) error
}
