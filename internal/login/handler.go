package login

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/odensebartech/dashboard/internal/middleware"
	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/telemetry/metrics"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"
	"github.com/odensebartech/dashboard/internal/views"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// DefaultLandingPath is where a fresh session starts.
const DefaultLandingPath = "/dashboard/recipes"

type authAPI interface {
	Login(ctx context.Context, creds remote.Credentials) (*remote.LoginResponse, error)
}

type formData struct {
	Email string
}

type Handler struct {
	api            authAPI
	sessions       session.Store
	renderer       *views.Renderer
	metricsManager *metrics.Manager
	sessionTTL     time.Duration
	now            func() time.Time
}

func NewHandler(
	api authAPI,
	sessions session.Store,
	renderer *views.Renderer,
	metricsManager *metrics.Manager,
	sessionTTL time.Duration,
) *Handler {
	if sessionTTL <= 0 {
		sessionTTL = session.DefaultTTL
	}
	return &Handler{
		api:            api,
		sessions:       sessions,
		renderer:       renderer,
		metricsManager: metricsManager,
		sessionTTL:     sessionTTL,
		now:            time.Now,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc(middleware.LoginPath, handler.handleLoginPage).Methods("GET").Name("login-page")
	mainRouter.HandleFunc(middleware.LoginPath, handler.handleLogin).Methods("POST").Name("login")
	mainRouter.HandleFunc(middleware.LogoutPath, handler.handleLogout).Methods("POST").Name("logout")
	mainRouter.HandleFunc(middleware.SessionExpiredPath, handler.handleSessionExpired).Methods("GET").Name("session-expired")
}

func (handler *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	page := views.NewPage(w, r, "Login", "")
	page.Data = formData{}
	handler.renderer.Render(w, http.StatusOK, views.PageLogin, page)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.login")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("login failed, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	page := views.NewPage(w, r, "Login", "")
	page.Data = formData{Email: email}
	page.Errors.Required("email", "Email", email)
	page.Errors.Required("password", "Password", password)
	if page.Errors.Any() {
		span.SetStatus(codes.Error, "missing-credentials")
		handler.countLogin("invalid_form")
		flash := views.Error("Login failed", "Email and password are required")
		page.Flash = &flash
		handler.renderer.Render(w, http.StatusBadRequest, views.PageLogin, page)
		return
	}

	resp, err := handler.api.Login(ctx, remote.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login-failed")

		status := http.StatusUnauthorized
		description := "Invalid email or password"
		var statusErr *remote.StatusError
		if !errors.As(err, &statusErr) {
			log.Errorf("login: %s", err)
			status = http.StatusBadGateway
			description = "Something went wrong."
			handler.countLogin("error")
		} else {
			log.Tracef("failed login attempt for %s: %s", email, err)
			handler.countLogin("rejected")
		}

		flash := views.Error("Login failed", description)
		page.Flash = &flash
		handler.renderer.Render(w, status, views.PageLogin, page)
		return
	}

	s := session.New(resp.AccessToken, resp.Username, resp.Permissions, handler.now(), handler.sessionTTL)
	if err := handler.sessions.Save(w, r, s); err != nil {
		log.Errorf("login: save session: %s", err)
		span.SetStatus(codes.Error, "save-session")
		handler.countLogin("error")
		flash := views.Error("Login failed", "Something went wrong.")
		page.Flash = &flash
		handler.renderer.Render(w, http.StatusInternalServerError, views.PageLogin, page)
		return
	}

	handler.countLogin("success")
	span.SetStatus(codes.Ok, "ok")
	log.Debugf("new login success: %s", resp.Username)

	views.SetFlash(w, views.Success("Login successful", "Welcome, "+resp.Username))
	http.Redirect(w, r, DefaultLandingPath, http.StatusSeeOther)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.logout")
	defer span.End()

	if err := handler.sessions.Clear(w, r); err != nil {
		// the browser cookie is gone anyway
		log.Errorf("logout: clear session: %s", err)
	}

	views.SetFlash(w, views.Success("Logged out", ""))
	middleware.RedirectToLogin(w, r)
}

// handleSessionExpired is only reached when AuthCheck still accepts the token, so
// the remote refused one call but not the session.
func (handler *Handler) handleSessionExpired(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.sessionExpired")
	defer span.End()

	log.Debugf("session still valid after a rejected remote call, referer: %s", r.Referer())
	span.SetStatus(codes.Error, "access-denied")
	http.Error(w, "access denied", http.StatusForbidden)
}

func (handler *Handler) countLogin(result string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues(result).Inc()
	}
}
