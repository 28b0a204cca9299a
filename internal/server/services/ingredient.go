package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// IngredientService manages the shared ingredient catalog. Ingredients are
// reference data: any authenticated user can create and read them, and names
// are unique case-insensitively.
type IngredientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewIngredientService(db *sql.DB, m repomanager.RepositoryManager) *IngredientService {
	return &IngredientService{db: db, repomanager: m}
}

// Create adds an ingredient. A name differing only in case from an existing
// one yields common.ErrorAlreadyExists.
func (s *IngredientService) Create(ctx context.Context, name string) (*models.Ingredient, error) {
	repo := s.repomanager.Ingredients(s.db)
	ingredient, err := repo.Create(ctx, &models.Ingredient{Name: strings.TrimSpace(name)})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating ingredient: %w", err)
	}
	return ingredient, nil
}

// List returns the whole catalog.
func (s *IngredientService) List(ctx context.Context) ([]*models.Ingredient, error) {
	repo := s.repomanager.Ingredients(s.db)
	items, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing ingredients: %w", err)
	}
	return items, nil
}

// Get returns one ingredient by id, or common.ErrorNotFound.
func (s *IngredientService) Get(ctx context.Context, id string) (*models.Ingredient, error) {
	repo := s.repomanager.Ingredients(s.db)
	ingredient, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error getting ingredient: %w", err)
	}
	return ingredient, nil
}
