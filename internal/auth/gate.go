// Package auth decides whether a stored session may enter a protected page.
// The remote authority is asked on every check; nothing is remembered.
package auth

import (
	"context"
	"errors"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Reason string

const (
	ReasonMissingToken      Reason = "missing-token"
	ReasonRejected          Reason = "rejected"
	ReasonUnreachable       Reason = "unreachable"
	ReasonMalformedResponse Reason = "malformed-response"
)

type Principal struct {
	Username string
	Role     string
}

// Result is either Authenticated with a principal, or Unauthenticated with a reason.
type Result struct {
	principal *Principal
	reason    Reason
}

func Authenticated(p Principal) Result {
	return Result{principal: &p}
}

func Unauthenticated(reason Reason) Result {
	return Result{reason: reason}
}

func (r Result) IsAuthenticated() bool {
	return r.principal != nil
}

func (r Result) Principal() (Principal, bool) {
	if r.principal == nil {
		return Principal{}, false
	}
	return *r.principal, true
}

// Reason is empty for an authenticated result.
func (r Result) Reason() Reason {
	return r.reason
}

type Gate struct {
	validator TokenValidator
}

func NewGate(validator TokenValidator) *Gate {
	return &Gate{
		validator: validator,
	}
}

func (g *Gate) Check(ctx context.Context, s *session.Session) Result {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.gate.check")
	defer span.End()

	result := g.check(ctx, s)
	if result.IsAuthenticated() {
		span.SetStatus(codes.Ok, "authenticated")
	} else {
		span.SetAttributes(attribute.String("auth.reason", string(result.Reason())))
		span.SetStatus(codes.Error, string(result.Reason()))
	}

	return result
}

func (g *Gate) check(ctx context.Context, s *session.Session) Result {
	if s == nil || s.Token == "" {
		return Unauthenticated(ReasonMissingToken)
	}

	info, err := g.validator.ValidateToken(ctx, s.Token)
	if err != nil {
		var statusErr *remote.StatusError
		switch {
		case errors.Is(err, remote.ErrMissingToken):
			return Unauthenticated(ReasonMissingToken)
		case errors.As(err, &statusErr):
			log.Debugf("auth gate: token rejected with status %d", statusErr.StatusCode)
			return Unauthenticated(ReasonRejected)
		case errors.Is(err, remote.ErrMalformedResponse):
			log.Warnf("auth gate: %s", err)
			return Unauthenticated(ReasonMalformedResponse)
		default:
			log.Errorf("auth gate: validate token: %s", err)
			return Unauthenticated(ReasonUnreachable)
		}
	}

	if info == nil || info.Username == "" {
		return Unauthenticated(ReasonMalformedResponse)
	}

	return Authenticated(Principal{
		Username: info.Username,
		Role:     info.Role,
	})
}

type principalCtxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}
