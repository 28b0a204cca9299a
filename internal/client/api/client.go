// Package api implements the HTTP client for the Recipe Box API. It keeps
// the session token issued at login and sends it as a bearer header on
// protected calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAPI wraps error envelopes returned by the server.
var ErrAPI = errors.New("api error")

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Token returns the current session token ("" when logged out).
func (c *Client) Token() string { return c.token }

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type Ingredient struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RecipeItem struct {
	IngredientID string  `json:"ingredient_id"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
}

type Recipe struct {
	ID          string       `json:"id"`
	OwnerID     string       `json:"owner_id"`
	Title       string       `json:"title"`
	Steps       string       `json:"steps"`
	Ingredients []RecipeItem `json:"ingredients"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	CorrelationID string `json:"correlation_id"`
}

// Register creates an account. The password slice is not retained.
func (c *Client) Register(ctx context.Context, email string, password []byte) (*User, error) {
	user := &User{}
	err := c.call(ctx, http.MethodPost, "/auth/register",
		credentials{Email: email, Password: string(password)}, user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email string, password []byte) error {
	resp := &tokenResponse{}
	err := c.call(ctx, http.MethodPost, "/auth/login",
		credentials{Email: email, Password: string(password)}, resp)
	if err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

// Logout revokes the session token server-side and forgets it locally.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.call(ctx, http.MethodGet, "/auth/me", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AddIngredient creates a catalog ingredient.
func (c *Client) AddIngredient(ctx context.Context, name string) (*Ingredient, error) {
	ingredient := &Ingredient{}
	err := c.call(ctx, http.MethodPost, "/ingredients", map[string]string{"name": name}, ingredient)
	if err != nil {
		return nil, err
	}
	return ingredient, nil
}

// ListIngredients returns the catalog.
func (c *Client) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	var items []Ingredient
	if err := c.call(ctx, http.MethodGet, "/ingredients", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddRecipe creates a recipe owned by the authenticated user.
func (c *Client) AddRecipe(ctx context.Context, title, steps string, items []RecipeItem) (*Recipe, error) {
	payload := map[string]any{"title": title, "steps": steps, "ingredients": items}
	recipe := &Recipe{}
	if err := c.call(ctx, http.MethodPost, "/recipes", payload, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// ListRecipes returns the user's recipes, optionally filtered by ingredient
// name.
func (c *Client) ListRecipes(ctx context.Context, ingredientName string) ([]Recipe, error) {
	path := "/recipes"
	if ingredientName != "" {
		path += "?ingredient=" + url.QueryEscape(ingredientName)
	}
	var recipes []Recipe
	if err := c.call(ctx, http.MethodGet, path, nil, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// DeleteRecipe removes an owned recipe.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/recipes/"+url.PathEscape(id), nil, nil)
}

// call issues one JSON request. A 2xx response is decoded into out (when both
// are present); anything else is decoded as the error envelope.
func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Code == "" {
			return fmt.Errorf("%w: unexpected status %d", ErrAPI, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s (%s)", ErrAPI, envelope.Error.Message, envelope.Error.Code)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
