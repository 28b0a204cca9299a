// Package cli implements the interactive Recipe Box client: a small REPL
// over the API client with masked password prompts.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/client/api"
	"github.com/dmitrijs2005/recipebox/internal/client/config"
	"github.com/dmitrijs2005/recipebox/internal/shared"
)

// App is the interactive command loop.
type App struct {
	client *api.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	return &App{
		client: api.NewClient(cfg.ServerURL),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}, nil
}

const helpText = `Commands:
  register        create an account
  login           sign in and start a session
  logout          revoke the current session
  me              show the signed-in user
  ingredients     list the ingredient catalog
  add-ingredient  add a catalog ingredient
  recipes         list your recipes (optionally by ingredient)
  add-recipe      create a recipe
  delete-recipe   delete one of your recipes
  help            show this text
  exit            quit`

// Run processes commands until exit or EOF.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Recipe Box client. Type 'help' for commands.")

	for {
		cmd, err := GetSimpleText(a.reader, "", a.out)
		if err != nil {
			return
		}

		switch strings.ToLower(cmd) {
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.runSimple(func() error { return a.client.Logout(ctx) })
		case "me":
			a.me(ctx)
		case "ingredients":
			a.listIngredients(ctx)
		case "add-ingredient":
			a.addIngredient(ctx)
		case "recipes":
			a.listRecipes(ctx)
		case "add-recipe":
			a.addRecipe(ctx)
		case "delete-recipe":
			a.deleteRecipe(ctx)
		case "help":
			fmt.Fprintln(a.out, helpText)
		case "exit", "quit":
			return
		case "":
		default:
			fmt.Fprintf(a.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (a *App) runSimple(fn func() error) {
	if err := fn(); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "OK")
}

func (a *App) credentials() (string, []byte, error) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) register(ctx context.Context) {
	email, password, err := a.credentials()
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer shared.WipeByteArray(password)

	user, err := a.client.Register(ctx, email, password)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Registered %s\n", user.Email)
}

func (a *App) login(ctx context.Context) {
	email, password, err := a.credentials()
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	defer shared.WipeByteArray(password)

	if err := a.client.Login(ctx, email, password); err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintln(a.out, "Success!")
}

func (a *App) me(ctx context.Context) {
	user, err := a.client.Me(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "%s (%s)\n", user.Email, user.ID)
}

func (a *App) listIngredients(ctx context.Context) {
	items, err := a.client.ListIngredients(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	for _, item := range items {
		fmt.Fprintf(a.out, "%s  %s\n", item.ID, item.Name)
	}
}

func (a *App) addIngredient(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Ingredient name", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	item, err := a.client.AddIngredient(ctx, name)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", item.Name, item.ID)
}

func (a *App) listRecipes(ctx context.Context) {
	filter, err := GetSimpleText(a.reader, "Filter by ingredient name (empty for all)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	recipes, err := a.client.ListRecipes(ctx, filter)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	for _, recipe := range recipes {
		fmt.Fprintf(a.out, "%s  %s (%d ingredients)\n", recipe.ID, recipe.Title, len(recipe.Ingredients))
	}
}

func (a *App) addRecipe(ctx context.Context) {
	title, err := GetSimpleText(a.reader, "Title", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	steps, err := GetSimpleText(a.reader, "Steps", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	var items []api.RecipeItem
	for {
		id, err := GetSimpleText(a.reader, "Ingredient id (empty to finish)", a.out)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return
		}
		if id == "" {
			break
		}
		amountText, err := GetSimpleText(a.reader, "Amount", a.out)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return
		}
		amount, err := strconv.ParseFloat(amountText, 64)
		if err != nil {
			fmt.Fprintln(a.out, "amount must be a number")
			continue
		}
		unit, err := GetSimpleText(a.reader, "Unit (g, kg, ml, l, tsp, tbsp, pcs)", a.out)
		if err != nil {
			fmt.Fprintln(a.out, err.Error())
			return
		}
		items = append(items, api.RecipeItem{IngredientID: id, Amount: amount, Unit: unit})
	}

	recipe, err := a.client.AddRecipe(ctx, title, steps, items)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", recipe.Title, recipe.ID)
}

func (a *App) deleteRecipe(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Recipe id", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	a.runSimple(func() error { return a.client.DeleteRecipe(ctx, id) })
}
