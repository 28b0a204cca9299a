package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

// In-memory fakes standing in for the PostgreSQL repositories. The DBTX handed
// to the manager is ignored; all state lives in maps guarded by one mutex.

type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
	seq  int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}

	f.seq++
	stored := *user
	stored.ID = fmt.Sprintf("u-%d", f.seq)
	stored.CreatedAt = time.Now()
	f.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.byID {
		if strings.EqualFold(user.Email, email) {
			out := *user
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeUsersRepo) delete(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byID, id)
}

type fakeIngredientsRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Ingredient
	seq  int
}

func newFakeIngredientsRepo() *fakeIngredientsRepo {
	return &fakeIngredientsRepo{byID: map[string]*models.Ingredient{}}
}

func (f *fakeIngredientsRepo) Create(ctx context.Context, ingredient *models.Ingredient) (*models.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.byID {
		if strings.EqualFold(existing.Name, ingredient.Name) {
			return nil, common.ErrorAlreadyExists
		}
	}

	f.seq++
	stored := *ingredient
	stored.ID = fmt.Sprintf("i-%d", f.seq)
	stored.CreatedAt = time.Now()
	f.byID[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (f *fakeIngredientsRepo) List(ctx context.Context) ([]*models.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*models.Ingredient
	for i := 1; i <= f.seq; i++ {
		if item, ok := f.byID[fmt.Sprintf("i-%d", i)]; ok {
			out := *item
			result = append(result, &out)
		}
	}
	return result, nil
}

func (f *fakeIngredientsRepo) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *item
	return &out, nil
}

func (f *fakeIngredientsRepo) GetByName(ctx context.Context, name string) (*models.Ingredient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, item := range f.byID {
		if strings.EqualFold(item.Name, name) {
			out := *item
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeIngredientsRepo) Exist(ctx context.Context, ids []string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	found := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := f.byID[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

type fakeRecipesRepo struct {
	mu          sync.Mutex
	byID        map[string]*models.Recipe
	seq         int
	ingredients *fakeIngredientsRepo
}

func newFakeRecipesRepo(ingredients *fakeIngredientsRepo) *fakeRecipesRepo {
	return &fakeRecipesRepo{byID: map[string]*models.Recipe{}, ingredients: ingredients}
}

func copyRecipe(r *models.Recipe) *models.Recipe {
	out := *r
	out.Ingredients = append([]models.RecipeIngredient(nil), r.Ingredients...)
	return &out
}

func (f *fakeRecipesRepo) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	stored := copyRecipe(recipe)
	stored.ID = fmt.Sprintf("r-%d", f.seq)
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	f.byID[stored.ID] = stored

	return copyRecipe(stored), nil
}

func (f *fakeRecipesRepo) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recipe, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyRecipe(recipe), nil
}

func (f *fakeRecipesRepo) ListByOwner(ctx context.Context, ownerID, ingredientName string) ([]*models.Recipe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*models.Recipe
	for i := 1; i <= f.seq; i++ {
		recipe, ok := f.byID[fmt.Sprintf("r-%d", i)]
		if !ok || recipe.OwnerID != ownerID {
			continue
		}
		if ingredientName != "" && !f.usesIngredient(recipe, ingredientName) {
			continue
		}
		result = append(result, copyRecipe(recipe))
	}
	return result, nil
}

func (f *fakeRecipesRepo) usesIngredient(recipe *models.Recipe, name string) bool {
	for _, item := range recipe.Ingredients {
		ingredient, ok := f.ingredients.byID[item.IngredientID]
		if ok && strings.EqualFold(ingredient.Name, name) {
			return true
		}
	}
	return false
}

func (f *fakeRecipesRepo) Update(ctx context.Context, recipe *models.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.byID[recipe.ID]
	if !ok {
		return common.ErrorNotFound
	}

	updated := copyRecipe(recipe)
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now()
	f.byID[recipe.ID] = updated
	recipe.UpdatedAt = updated.UpdatedAt
	return nil
}

func (f *fakeRecipesRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRepoManager struct {
	users       *fakeUsersRepo
	ingredients *fakeIngredientsRepo
	recipes     *fakeRecipesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	ing := newFakeIngredientsRepo()
	return &fakeRepoManager{
		users:       newFakeUsersRepo(),
		ingredients: ing,
		recipes:     newFakeRecipesRepo(ing),
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *fakeRepoManager) Ingredients(db dbx.DBTX) ingredients.Repository {
	return m.ingredients
}

func (m *fakeRepoManager) Recipes(db dbx.DBTX) recipes.Repository {
	return m.recipes
}

// newTestDB returns a sqlmock-backed *sql.DB. Services only touch it for
// transactions, so tests queue Begin/Commit pairs as needed.
func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}
