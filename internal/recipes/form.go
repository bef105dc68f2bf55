package recipes

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/views"
)

const minFormRows = 3

type rowForm struct {
	Code   string
	Amount string
}

type recipeForm struct {
	Name      string
	Available bool
	Rows      []rowForm
}

func newRecipeForm() recipeForm {
	return recipeForm{
		Available: true,
		Rows:      make([]rowForm, minFormRows),
	}
}

// parseRecipeForm checks field presence only. Rows left fully blank are skipped.
func parseRecipeForm(form url.Values) (recipeForm, remote.NewRecipe, views.FieldErrors) {
	fieldErrors := views.FieldErrors{}
	rf := recipeForm{
		Name:      strings.TrimSpace(form.Get("name")),
		Available: form.Get("available") == "true",
	}
	fieldErrors.Required("name", "Name", rf.Name)

	recipe := remote.NewRecipe{
		Name:        rf.Name,
		Available:   rf.Available,
		Ingredients: []remote.NewRecipeIngredient{},
	}

	codes := form["ingredient_code"]
	amounts := form["amount"]
	rowsCount := len(codes)
	if len(amounts) > rowsCount {
		rowsCount = len(amounts)
	}

	for i := 0; i < rowsCount; i++ {
		row := rowForm{}
		if i < len(codes) {
			row.Code = strings.TrimSpace(codes[i])
		}
		if i < len(amounts) {
			row.Amount = strings.TrimSpace(amounts[i])
		}
		if row.Code == "" && row.Amount == "" {
			continue
		}
		rf.Rows = append(rf.Rows, row)

		if row.Code == "" {
			fieldErrors.Add("ingredients", "Each ingredient row needs an ingredient")
			continue
		}
		amount, err := strconv.Atoi(row.Amount)
		if err != nil || amount < 1 {
			fieldErrors.Add("ingredients", "Each ingredient row needs an amount of at least 1 ml")
			continue
		}
		recipe.Ingredients = append(recipe.Ingredients, remote.NewRecipeIngredient{
			Code:   row.Code,
			Amount: amount,
		})
	}

	for len(rf.Rows) < minFormRows {
		rf.Rows = append(rf.Rows, rowForm{})
	}

	return rf, recipe, fieldErrors
}
