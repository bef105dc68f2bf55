package remote

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	var ingredients []Ingredient
	if err := c.do(ctx, call{
		op:     "list_ingredients",
		method: http.MethodGet,
		path:   "/ingredients",
		out:    &ingredients,
	}); err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (c *Client) CreateIngredient(ctx context.Context, ingredient NewIngredient) error {
	return c.do(ctx, call{
		op:     "create_ingredient",
		method: http.MethodPost,
		path:   "/ingredients",
		body:   ingredient,
	})
}

func (c *Client) DeleteIngredient(ctx context.Context, id int) error {
	return c.do(ctx, call{
		op:     "delete_ingredient",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/ingredients/%d", id),
	})
}

func (c *Client) DeleteIngredients(ctx context.Context, ids []int) error {
	return c.DeleteMany(ctx, "ingredients", ids, c.DeleteIngredient)
}
