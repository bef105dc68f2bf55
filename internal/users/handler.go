package users

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"
	"github.com/odensebartech/dashboard/internal/views"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const listPath = "/dashboard/users"

type usersAPI interface {
	ListUsers(ctx context.Context) ([]remote.User, error)
	CreateUser(ctx context.Context, user remote.NewUser) error
	DeleteUsers(ctx context.Context, ids []int) error
}

// userForm never carries the password back to the page.
type userForm struct {
	Name  string
	Email string
	Role  string
}

type listData struct {
	Table views.Table[remote.User]
	Form  userForm
}

type Handler struct {
	api      usersAPI
	renderer *views.Renderer
}

func NewHandler(api usersAPI, renderer *views.Renderer) *Handler {
	return &Handler{
		api:      api,
		renderer: renderer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(listPath, handler.handleList).Methods("GET").Name("users")
	router.HandleFunc(listPath, handler.handleCreate).Methods("POST").Name("user-create")
	router.HandleFunc(listPath+"/delete", handler.handleDelete).Methods("POST").Name("users-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.list")
	defer span.End()

	handler.render(ctx, w, r, http.StatusOK, userForm{}, nil, nil)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.create")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("create user, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	newUser := remote.NewUser{
		Name:     strings.TrimSpace(r.PostForm.Get("name")),
		Email:    strings.TrimSpace(r.PostForm.Get("email")),
		Password: r.PostForm.Get("password"),
		Role:     strings.TrimSpace(r.PostForm.Get("role")),
	}
	form := userForm{Name: newUser.Name, Email: newUser.Email, Role: newUser.Role}

	fieldErrors := views.FieldErrors{}
	fieldErrors.Required("name", "Name", newUser.Name)
	fieldErrors.Required("email", "Email", newUser.Email)
	fieldErrors.Required("password", "Password", newUser.Password)
	fieldErrors.Required("role", "Role", newUser.Role)
	if fieldErrors.Any() {
		span.SetStatus(codes.Error, "invalid-form")
		handler.render(ctx, w, r, http.StatusBadRequest, form, fieldErrors, nil)
		return
	}

	if err := handler.api.CreateUser(ctx, newUser); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "create user", err) {
			return
		}
		flash := views.Error("Error", "Failed to create user")
		handler.render(ctx, w, r, views.RemoteErrorStatus(err), form, nil, &flash)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("User created", fmt.Sprintf("User '%s' has been added.", newUser.Name)))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.delete")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("delete users, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	selection, err := views.ParseSelection(r.PostForm[views.SelectionParam])
	if err != nil {
		log.Errorf("delete users: %s", err)
		http.Error(w, "invalid selection", http.StatusBadRequest)
		return
	}
	if selection.Len() == 0 {
		flash := views.Error("Nothing selected", "Select at least one user to delete.")
		handler.render(ctx, w, r, http.StatusBadRequest, userForm{}, nil, &flash)
		return
	}

	ids := selection.IDs()
	span.SetAttributes(attribute.Int("users.count", len(ids)))

	if err := handler.api.DeleteUsers(ctx, ids); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "delete users", err) {
			return
		}
		views.SetFlash(w, views.Error("Delete failed", "Failed to delete selected users"))
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("Users deleted", fmt.Sprintf("%d user(s) deleted.", len(ids))))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (handler *Handler) render(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form userForm,
	fieldErrors views.FieldErrors,
	flash *views.Flash,
) {
	users, err := handler.api.ListUsers(ctx)
	if err != nil {
		if views.HandleRemoteError(w, r, "list users", err) {
			return
		}
		users = nil
	}

	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	selection, err := views.ApplyQuery(r.URL.Query(), ids)
	if err != nil {
		log.Debugf("list users, ignoring selection: %s", err)
		selection = views.NewSelection()
	}

	page := views.NewPage(w, r, "Users", "users")
	if fieldErrors != nil {
		page.Errors = fieldErrors
	}
	if flash != nil {
		page.Flash = flash
	}
	page.Data = listData{
		Table: views.NewTable(selection, users, func(u remote.User) int { return u.ID }, r.URL.Query().Get("confirm") != ""),
		Form:  form,
	}
	handler.renderer.Render(w, status, views.PageUsers, page)
}
