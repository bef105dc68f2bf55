package auth

import (
	"context"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
)

var _ Checker = (*Gate)(nil)
var _ TokenValidator = (*remote.Client)(nil)

type Checker interface {
	Check(ctx context.Context, s *session.Session) Result
}

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*remote.TokenInfo, error)
}
