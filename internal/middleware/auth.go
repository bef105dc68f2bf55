package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/odensebartech/dashboard/internal/auth"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	LoginPath          = "/login"
	LogoutPath         = "/logout"
	SessionExpiredPath = "/session/expired"
)

//go:generate mockgen -source=auth.go -destination=mocks_test.go -package=middleware_test

type sessionStore interface {
	Load(r *http.Request) (*session.Session, error)
	Clear(w http.ResponseWriter, r *http.Request) error
}

type authChecker interface {
	Check(ctx context.Context, s *session.Session) auth.Result
}

type AuthMiddlewareHandler struct {
	sessions             sessionStore
	checker              authChecker
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(
	sessions sessionStore,
	checker authChecker,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		checker:  checker,
		allowedPaths: map[string]bool{
			"/":            true,
			"/ping":        true,
			"/favicon.ico": true,

			// login-logout:
			LoginPath:  true,
			LogoutPath: true,
		},
		allowedPathsPrefixes: []string{
			"/static/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck lets a request through to a protected page only with a session the
// remote authority still accepts. Every other outcome ends on the login page.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			s, err := h.sessions.Load(r)
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				log.Errorf("[failed session load] => %s: %s", r.URL.Path, err)
				span.RecordError(err)
			}

			result := h.checker.Check(ctx, s)
			principal, ok := result.Principal()
			if !ok {
				log.Tracef("[%s] [auth middleware] unauthorized => %s", result.Reason(), r.URL.Path)
				span.SetAttributes(attribute.String("auth.reason", string(result.Reason())))
				span.SetStatus(codes.Error, string(result.Reason()))
				if err := h.sessions.Clear(w, r); err != nil {
					log.Errorf("[auth middleware] clear session: %s", err)
				}
				RedirectToLogin(w, r)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			ctx = session.WithSession(ctx, s)
			ctx = auth.WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectToLogin keeps GET a GET and turns any form submit into a GET of the login page.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath, RedirectStatus(r))
}

// RedirectSessionRejected is used when the remote authority rejects the token mid
// session. The target is a protected path, so AuthCheck validates the token again
// and clears the session if it is really gone.
func RedirectSessionRejected(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, SessionExpiredPath, RedirectStatus(r))
}

func RedirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
