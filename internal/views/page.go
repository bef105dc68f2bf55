package views

import (
	"net/http"

	"github.com/odensebartech/dashboard/internal/auth"
	"github.com/odensebartech/dashboard/internal/middleware"
	"github.com/odensebartech/dashboard/internal/session"
)

// Page is what every template gets: the layout part plus page specific Data.
type Page struct {
	Title     string
	Active    string
	Username  string
	Role      string
	CSRFToken string
	Flash     *Flash
	Errors    FieldErrors
	Data      any
}

// NewPage prepares the layout part of a page for this request and consumes a
// pending flash, if any.
func NewPage(w http.ResponseWriter, r *http.Request, title, active string) *Page {
	page := &Page{
		Title:     title,
		Active:    active,
		CSRFToken: middleware.CSRFToken(r.Context()),
		Flash:     PopFlash(w, r),
		Errors:    FieldErrors{},
	}

	if s, ok := session.FromContext(r.Context()); ok {
		page.Username = s.Username
	}
	if p, ok := auth.PrincipalFromContext(r.Context()); ok {
		if page.Username == "" {
			page.Username = p.Username
		}
		page.Role = p.Role
	}

	return page
}

// FieldErrors maps a form field to its problem.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, message string) {
	if _, ok := fe[field]; !ok {
		fe[field] = message
	}
}

func (fe FieldErrors) Any() bool {
	return len(fe) > 0
}

// Required adds a "<label> is required" error when value is blank.
func (fe FieldErrors) Required(field, label, value string) {
	if isBlank(value) {
		fe.Add(field, label+" is required")
	}
}
