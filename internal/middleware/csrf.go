package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/odensebartech/dashboard/pkg"

	log "github.com/sirupsen/logrus"
)

const (
	CSRFFormField  = "csrf_token"
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-CSRF-Token"
	csrfCookieTTL  = 86400
)

type csrfCtxKey struct{}

// CSRFToken returns the token forms rendered for this request must carry.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfCtxKey{}).(string)
	return token
}

// CSRFProtect is a double submit cookie check: every state changing request must
// echo the csrf cookie in a form field or in the X-CSRF-Token header.
func CSRFProtect(cookieSecure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookieToken := ""
			if c, err := r.Cookie(csrfCookieName); err == nil {
				cookieToken = c.Value
			}

			if isSafeMethod(r.Method) {
				if cookieToken == "" {
					token, err := pkg.GenerateRandomString(32)
					if err != nil {
						log.Errorf("generate csrf token: %s", err)
						http.Error(w, "internal server error", http.StatusInternalServerError)
						return
					}
					cookieToken = token
					http.SetCookie(w, &http.Cookie{
						Name:     csrfCookieName,
						Value:    cookieToken,
						Path:     "/",
						MaxAge:   csrfCookieTTL,
						HttpOnly: true,
						Secure:   cookieSecure,
						SameSite: http.SameSiteLaxMode,
					})
				}
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfCtxKey{}, cookieToken)))
				return
			}

			sentToken := r.Header.Get(csrfHeaderName)
			if sentToken == "" {
				sentToken = r.PostFormValue(CSRFFormField)
			}

			if cookieToken == "" || sentToken == "" ||
				subtle.ConstantTimeCompare([]byte(cookieToken), []byte(sentToken)) != 1 {
				log.Warnf("csrf validation failed: %s %s", r.Method, r.URL.Path)
				http.Error(w, "CSRF token validation failed", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfCtxKey{}, cookieToken)))
		})
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
