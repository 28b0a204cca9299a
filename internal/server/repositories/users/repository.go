package users

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	// Create stores a new user. A duplicate email (case-insensitive) yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks a user up by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks a user up by its identifier.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
