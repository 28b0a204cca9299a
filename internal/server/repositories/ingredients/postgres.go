// Package ingredients provides the PostgreSQL-backed repository for the
// shared ingredient catalog.
package ingredients

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

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

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

func (r *PostgresRepository) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	query := `
		INSERT INTO ingredients (name)
		VALUES ($1)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, ingredient.Name).
		Scan(&ingredient.ID, &ingredient.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ingredient, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Ingredient, error) {
	query := `
		SELECT id, name, created_at FROM ingredients
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Ingredient
	for rows.Next() {
		var item models.Ingredient
		if err := rows.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	query := `
		SELECT id, name, created_at FROM ingredients
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	query := `
		SELECT id, name, created_at FROM ingredients
		WHERE lower(name) = lower($1)
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, name))
}

func (r *PostgresRepository) Exist(ctx context.Context, ids []string) (map[string]bool, error) {
	query := `
		SELECT id FROM ingredients
		WHERE id::text = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	found := make(map[string]bool, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Ingredient, error) {
	item := &models.Ingredient{}
	if err := row.Scan(&item.ID, &item.Name, &item.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}
