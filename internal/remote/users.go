package remote

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, call{
		op:     "list_users",
		method: http.MethodGet,
		path:   "/users",
		out:    &users,
	}); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, user NewUser) error {
	return c.do(ctx, call{
		op:     "create_user",
		method: http.MethodPost,
		path:   "/users",
		body:   user,
	})
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.do(ctx, call{
		op:     "delete_user",
		method: http.MethodDelete,
		path:   fmt.Sprintf("/users/%d", id),
	})
}

func (c *Client) DeleteUsers(ctx context.Context, ids []int) error {
	return c.DeleteMany(ctx, "users", ids, c.DeleteUser)
}
