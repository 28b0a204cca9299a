package httpapi

import (
	"strings"
	"unicode"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/services"
)

// --- auth payloads ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentialsRequest) normalize() {
	c.Email = models.NormalizeEmail(c.Email)
}

// validateEmail applies the shared email shape checks: length bounds, a
// non-empty local part, and a domain containing a dot.
func (c *credentialsRequest) validateEmail() error {
	if len(c.Email) < 5 || len(c.Email) > models.MaxEmailLength {
		return validationErrorf("email must be between 5 and %d characters", models.MaxEmailLength)
	}
	local, domain, ok := strings.Cut(c.Email, "@")
	if !ok || local == "" || domain == "" {
		return validationErrorf("email must contain '@' and domain part")
	}
	if !strings.Contains(domain, ".") {
		return validationErrorf("email must contain domain with dot")
	}
	return nil
}

func (c *credentialsRequest) validatePasswordLength() error {
	if len(c.Password) < models.MinPasswordLength || len(c.Password) > models.MaxPasswordLength {
		return validationErrorf("password must be between %d and %d characters",
			models.MinPasswordLength, models.MaxPasswordLength)
	}
	return nil
}

// validateRegister enforces the registration password policy on top of the
// shared checks: at least one letter and one digit.
func (c *credentialsRequest) validateRegister() error {
	c.normalize()
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validatePasswordLength(); err != nil {
		return err
	}

	var hasLetter, hasDigit bool
	for _, r := range c.Password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return validationErrorf("password must include letters and digits")
	}
	return nil
}

// validateLogin applies only the shape checks; the policy was enforced at
// registration time.
func (c *credentialsRequest) validateLogin() error {
	c.normalize()
	if err := c.validateEmail(); err != nil {
		return err
	}
	return c.validatePasswordLength()
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// --- ingredient payloads ---

type ingredientRequest struct {
	Name string `json:"name"`
}

func (i *ingredientRequest) validate() error {
	i.Name = strings.TrimSpace(i.Name)
	if i.Name == "" || len(i.Name) > models.MaxIngredientName {
		return validationErrorf("name must be between 1 and %d characters", models.MaxIngredientName)
	}
	return nil
}

type ingredientResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toIngredientResponse(i *models.Ingredient) ingredientResponse {
	return ingredientResponse{ID: i.ID, Name: i.Name}
}

func toIngredientResponses(items []*models.Ingredient) []ingredientResponse {
	result := make([]ingredientResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toIngredientResponse(item))
	}
	return result
}

// --- recipe payloads ---

type recipeItemRequest struct {
	IngredientID string  `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

type recipeCreateRequest struct {
	Title       string              `json:"title"`
	Steps       string              `json:"steps"`
	Ingredients []recipeItemRequest `json:"ingredients"`
}

type recipePatchRequest struct {
	Title       *string              `json:"title"`
	Steps       *string              `json:"steps"`
	Ingredients *[]recipeItemRequest `json:"ingredients"`
}

func validateTitle(title string) error {
	if title == "" || len(title) > models.MaxRecipeTitle {
		return validationErrorf("title must be between 1 and %d characters", models.MaxRecipeTitle)
	}
	return nil
}

func validateSteps(steps string) error {
	if steps == "" || len(steps) > models.MaxRecipeSteps {
		return validationErrorf("steps must be between 1 and %d characters", models.MaxRecipeSteps)
	}
	return nil
}

// validateItems checks every ingredient reference: a known shape, a positive
// bounded amount, a unit from the fixed set, and no duplicate references.
func validateItems(items []recipeItemRequest) ([]models.RecipeIngredient, error) {
	if len(items) > models.MaxRecipeItems {
		return nil, validationErrorf("at most %d ingredients per recipe", models.MaxRecipeItems)
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]models.RecipeIngredient, 0, len(items))
	for pos, item := range items {
		if item.IngredientID == "" {
			return nil, validationErrorf("ingredients[%d].ingredient_id is required", pos)
		}
		if _, dup := seen[item.IngredientID]; dup {
			return nil, validationErrorf("duplicate ingredient_id=%s", item.IngredientID)
		}
		seen[item.IngredientID] = struct{}{}

		if item.Amount <= 0 || item.Amount > models.MaxIngredientAmount {
			return nil, validationErrorf("ingredients[%d].amount must be positive and at most %.2f",
				pos, models.MaxIngredientAmount)
		}
		if !models.IsAllowedUnit(item.Unit) {
			return nil, validationErrorf("unit must be one of: %s. Got: %s",
				strings.Join(models.AllowedUnitList(), ", "), item.Unit)
		}

		result = append(result, models.RecipeIngredient{
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
			Unit:         item.Unit,
			Position:     pos,
		})
	}
	return result, nil
}

func (r *recipeCreateRequest) validate() (*models.Recipe, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Steps = strings.TrimSpace(r.Steps)

	if err := validateTitle(r.Title); err != nil {
		return nil, err
	}
	if err := validateSteps(r.Steps); err != nil {
		return nil, err
	}
	if r.Ingredients == nil {
		return nil, validationErrorf("ingredients is required")
	}
	items, err := validateItems(r.Ingredients)
	if err != nil {
		return nil, err
	}

	return &models.Recipe{Title: r.Title, Steps: r.Steps, Ingredients: items}, nil
}

func (r *recipePatchRequest) validate() (*services.RecipePatch, error) {
	patch := &services.RecipePatch{}

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if r.Steps != nil {
		steps := strings.TrimSpace(*r.Steps)
		if err := validateSteps(steps); err != nil {
			return nil, err
		}
		patch.Steps = &steps
	}
	if r.Ingredients != nil {
		items, err := validateItems(*r.Ingredients)
		if err != nil {
			return nil, err
		}
		patch.Ingredients = &items
	}

	if patch.Empty() {
		return nil, validationErrorf("no fields to update")
	}
	return patch, nil
}

type recipeItemResponse struct {
	IngredientID string  `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

type recipeResponse struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	Title       string               `json:"title"`
	Steps       string               `json:"steps"`
	Ingredients []recipeItemResponse `json:"ingredients"`
}

func toRecipeResponse(recipe *models.Recipe) recipeResponse {
	items := make([]recipeItemResponse, 0, len(recipe.Ingredients))
	for _, item := range recipe.Ingredients {
		items = append(items, recipeItemResponse{
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
			Unit:         item.Unit,
		})
	}
	return recipeResponse{
		ID:          recipe.ID,
		OwnerID:     recipe.OwnerID,
		Title:       recipe.Title,
		Steps:       recipe.Steps,
		Ingredients: items,
	}
}

func toRecipeResponses(recipes []*models.Recipe) []recipeResponse {
	result := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, toRecipeResponse(recipe))
	}
	return result
}
