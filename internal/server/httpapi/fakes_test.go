package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/logging"
	"github.com/dmitrijs2005/recipebox/internal/server/config"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/ingredients"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
	"github.com/dmitrijs2005/recipebox/internal/server/sessions"
)

// In-memory repository fakes so handler tests run the real services without
// PostgreSQL.

type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User
	seq  int
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

type fakeIngredientsRepo struct {
	mu   sync.Mutex
	byID map[string]*models.Ingredient
	seq  int
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

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func newFakeRepoManager() *fakeRepoManager {
	ing := &fakeIngredientsRepo{byID: map[string]*models.Ingredient{}}
	return &fakeRepoManager{
		users:       &fakeUsersRepo{byID: map[string]*models.User{}},
		ingredients: ing,
		recipes:     &fakeRecipesRepo{byID: map[string]*models.Recipe{}, ingredients: ing},
	}
}

func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Ingredients(db dbx.DBTX) ingredients.Repository { return m.ingredients }

func (m *fakeRepoManager) Recipes(db dbx.DBTX) recipes.Repository { return m.recipes }

// testEnv wires real services over the fakes behind a real Handler.
type testEnv struct {
	handler http.Handler
	mock    sqlmock.Sqlmock
	store   sessions.Store
}

func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	// keep the limiter out of the way unless a test opts in
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000
	for _, m := range mutate {
		m(cfg)
	}

	manager := newFakeRepoManager()
	store := sessions.NewMemoryStore(cfg.SessionTTL())
	logger := logging.NewJSONLogger(io.Discard)

	server := NewServer(cfg, logger,
		services.NewUserService(db, manager, store),
		services.NewIngredientService(db, manager),
		services.NewRecipeService(db, manager),
	)

	return &testEnv{handler: server.Handler(), mock: mock, store: store}
}

// expectTx queues one transaction on the mocked database. Recipe create and
// update each consume one.
func (e *testEnv) expectTx() {
	e.mock.ExpectBegin()
	e.mock.ExpectCommit()
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func newRecordedRequest(method, path string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(method, path, nil), httptest.NewRecorder()
}

func discardLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	return decodeBody[errorEnvelope](t, rec)
}

func registerAndLogin(t *testing.T, env *testEnv, email, password string) string {
	t.Helper()

	creds := map[string]string{"email": email, "password": password}
	if rec := env.do(t, http.MethodPost, "/auth/register", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	rec := env.do(t, http.MethodPost, "/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	return decodeBody[tokenResponse](t, rec).AccessToken
}

func createIngredient(t *testing.T, env *testEnv, token, name string) string {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/ingredients", token, map[string]string{"name": name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create ingredient %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	return decodeBody[ingredientResponse](t, rec).ID
}
