package ingredients

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	// Create stores a new ingredient. A duplicate name (case-insensitive)
	// yields common.ErrorAlreadyExists.
	Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error)

	// List returns all ingredients ordered by creation time.
	List(ctx context.Context) ([]*models.Ingredient, error)

	// GetByID looks an ingredient up by its identifier.
	GetByID(ctx context.Context, id string) (*models.Ingredient, error)

	// GetByName looks an ingredient up by name, case-insensitively.
	GetByName(ctx context.Context, name string) (*models.Ingredient, error)

	// Exist reports which of the given ingredient ids are present.
	Exist(ctx context.Context, ids []string) (map[string]bool, error)
}
