// Package recipes provides the PostgreSQL-backed repository for owner-scoped
// recipes and their ingredient rows.
package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

const pgInvalidTextRepresentation = "22P02"

// isInvalidID reports a failed uuid cast. A malformed id cannot name an
// existing row, so it reads as not found.
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepresentation
}

type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query := `
		INSERT INTO recipes (owner_id, title, steps)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, recipe.OwnerID, recipe.Title, recipe.Steps).
		Scan(&recipe.ID, &recipe.CreatedAt, &recipe.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := r.insertItems(ctx, recipe.ID, recipe.Ingredients); err != nil {
		return nil, err
	}

	return recipe, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	query := `
		SELECT id, owner_id, title, steps, created_at, updated_at FROM recipes
		WHERE id = $1
	`
	recipe := &models.Recipe{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&recipe.ID, &recipe.OwnerID, &recipe.Title, &recipe.Steps, &recipe.CreatedAt, &recipe.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	items, err := r.selectItems(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = items

	return recipe, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID, ingredientName string) ([]*models.Recipe, error) {
	query := `
		SELECT id, owner_id, title, steps, created_at, updated_at FROM recipes
		WHERE owner_id = $1
	`
	args := []any{ownerID}
	if ingredientName != "" {
		query += `
		AND EXISTS (
			SELECT 1 FROM recipe_ingredients ri
			JOIN ingredients i ON i.id = ri.ingredient_id
			WHERE ri.recipe_id = recipes.id AND lower(i.name) = lower($2)
		)
	`
		args = append(args, ingredientName)
	}
	query += `
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Recipe
	byID := map[string]*models.Recipe{}
	for rows.Next() {
		var item models.Recipe
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Steps, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
		byID[item.ID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return result, nil
	}

	itemsQuery := `
		SELECT ri.recipe_id, ri.ingredient_id, ri.amount, ri.unit, ri.position
		FROM recipe_ingredients ri
		JOIN recipes r ON r.id = ri.recipe_id
		WHERE r.owner_id = $1
		ORDER BY ri.recipe_id, ri.position
	`
	itemRows, err := r.db.QueryContext(ctx, itemsQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var recipeID string
		var ri models.RecipeIngredient
		if err := itemRows.Scan(&recipeID, &ri.IngredientID, &ri.Amount, &ri.Unit, &ri.Position); err != nil {
			return nil, err
		}
		if recipe, ok := byID[recipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, ri)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	query := `
		UPDATE recipes SET title = $2, steps = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, recipe.ID, recipe.Title, recipe.Steps).
		Scan(&recipe.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}

	deleteQuery := `
		DELETE FROM recipe_ingredients
		WHERE recipe_id = $1
	`
	if _, err := r.db.ExecContext(ctx, deleteQuery, recipe.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return r.insertItems(ctx, recipe.ID, recipe.Ingredients)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM recipes
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidID(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) insertItems(ctx context.Context, recipeID string, items []models.RecipeIngredient) error {
	query := `
		INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, unit, position)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range items {
		if _, err := r.db.ExecContext(ctx, query,
			recipeID, item.IngredientID, item.Amount, item.Unit, item.Position); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) selectItems(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	query := `
		SELECT ingredient_id, amount, unit, position FROM recipe_ingredients
		WHERE recipe_id = $1
		ORDER BY position
	`
	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []models.RecipeIngredient
	for rows.Next() {
		var item models.RecipeIngredient
		if err := rows.Scan(&item.IngredientID, &item.Amount, &item.Unit, &item.Position); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
