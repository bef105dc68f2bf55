package remote

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListRecipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	if err := c.do(ctx, call{
		op:     "list_recipes",
		method: http.MethodGet,
		path:   "/recipes",
		out:    &recipes,
	}); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (c *Client) GetRecipe(ctx context.Context, id int) (*Recipe, error) {
	recipe := &Recipe{}
	if err := c.do(ctx, call{
		op:     "get_recipe",
		method: http.MethodGet,
		path:   fmt.Sprintf("/recipes/%d", id),
		out:    recipe,
	}); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (c *Client) CreateRecipe(ctx context.Context, recipe NewRecipe) error {
	return c.do(ctx, call{
		op:     "create_recipe",
		method: http.MethodPost,
		path:   "/recipes",
		body:   recipe,
	})
}

func (c *Client) DeleteRecipe(ctx context.Context, id int) error {
	return c.do(ctx, call{
		op:     "delete_recipe",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/recipes/%d", id),
	})
}
