package remote

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for an access token. It is the only call made
// without a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResponse, error) {
	resp := &LoginResponse{}
	if err := c.do(ctx, call{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   creds,
		out:    resp,
		public: true,
	}); err != nil {
		return nil, err
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: login: empty access token", ErrMalformedResponse)
	}

	return resp, nil
}

// ValidateToken asks the remote authority whether token is still valid.
func (c *Client) ValidateToken(ctx context.Context, token string) (*TokenInfo, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	info := &TokenInfo{}
	if err := c.do(ctx, call{
		op:     "validate_token",
		method: http.MethodGet,
		path:   "/auth/validate-token",
		out:    info,
		token:  token,
	}); err != nil {
		return nil, err
	}

	return info, nil
}
