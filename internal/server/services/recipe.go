package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/authz"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// RecipePatch carries the fields of a partial update. Nil means "leave as is".
type RecipePatch struct {
	Title       *string
	Steps       *string
	Ingredients *[]models.RecipeIngredient
}

// Empty reports whether the patch changes nothing.
func (p *RecipePatch) Empty() bool {
	return p.Title == nil && p.Steps == nil && p.Ingredients == nil
}

// RecipeService implements owner-scoped recipe CRUD. Every read and mutation
// goes through the ownership gate before any recipe data is returned; a
// missing recipe and a foreign recipe both come back as common.ErrorDenied.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager) *RecipeService {
	return &RecipeService{db: db, repomanager: m}
}

// Create stores a recipe for ownerID. All referenced ingredient ids must
// exist; unknown ids yield a common.ErrorValidation wrap naming the first
// missing id. The recipe row and its ingredient rows are written in one
// transaction.
func (s *RecipeService) Create(ctx context.Context, ownerID string, recipe *models.Recipe) (*models.Recipe, error) {
	recipe.OwnerID = ownerID

	if err := s.checkIngredientIDs(ctx, recipe.Ingredients); err != nil {
		return nil, err
	}

	var created *models.Recipe
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		created, txErr = s.repomanager.Recipes(tx).Create(ctx, recipe)
		return txErr
	}); err != nil {
		return nil, fmt.Errorf("error creating recipe: %w", err)
	}
	return created, nil
}

// Get returns the recipe only to its owner.
func (s *RecipeService) Get(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	return s.getOwned(ctx, userID, recipeID)
}

// List returns the user's recipes, optionally filtered by ingredient name.
// An unknown ingredient name is not an error; it matches nothing.
func (s *RecipeService) List(ctx context.Context, userID, ingredientName string) ([]*models.Recipe, error) {
	repo := s.repomanager.Recipes(s.db)
	recipes, err := repo.ListByOwner(ctx, userID, ingredientName)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}
	return recipes, nil
}

// Update applies a partial update to an owned recipe. The merged result is
// written transactionally; the ownership gate runs before anything else.
func (s *RecipeService) Update(ctx context.Context, userID, recipeID string, patch *RecipePatch) (*models.Recipe, error) {
	recipe, err := s.getOwned(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		recipe.Title = *patch.Title
	}
	if patch.Steps != nil {
		recipe.Steps = *patch.Steps
	}
	if patch.Ingredients != nil {
		if err := s.checkIngredientIDs(ctx, *patch.Ingredients); err != nil {
			return nil, err
		}
		recipe.Ingredients = *patch.Ingredients
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.Recipes(tx).Update(ctx, recipe)
	}); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Deleted between the gate check and the write. Same deny.
			return nil, common.ErrorDenied
		}
		return nil, fmt.Errorf("error updating recipe: %w", err)
	}
	return recipe, nil
}

// Delete removes an owned recipe.
func (s *RecipeService) Delete(ctx context.Context, userID, recipeID string) error {
	if _, err := s.getOwned(ctx, userID, recipeID); err != nil {
		return err
	}

	if err := s.repomanager.Recipes(s.db).Delete(ctx, recipeID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorDenied
		}
		return fmt.Errorf("error deleting recipe: %w", err)
	}
	return nil
}

// getOwned fetches a recipe and runs the ownership gate. Both "absent" and
// "not yours" collapse into common.ErrorDenied here, before any recipe data
// can reach a caller.
func (s *RecipeService) getOwned(ctx context.Context, userID, recipeID string) (*models.Recipe, error) {
	repo := s.repomanager.Recipes(s.db)
	recipe, err := repo.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorDenied
		}
		return nil, fmt.Errorf("error getting recipe: %w", err)
	}
	if err := authz.CheckOwner(userID, recipe.OwnerID); err != nil {
		return nil, common.ErrorDenied
	}
	return recipe, nil
}

// checkIngredientIDs verifies all referenced ingredient ids exist.
func (s *RecipeService) checkIngredientIDs(ctx context.Context, items []models.RecipeIngredient) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.IngredientID)
	}

	found, err := s.repomanager.Ingredients(s.db).Exist(ctx, ids)
	if err != nil {
		return fmt.Errorf("error checking ingredients: %w", err)
	}
	for _, id := range ids {
		if !found[id] {
			return fmt.Errorf("%w: unknown ingredient_id=%s", common.ErrorValidation, id)
		}
	}
	return nil
}
