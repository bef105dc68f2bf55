package ingredients

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

const listPath = "/dashboard/ingredients"

type ingredientsAPI interface {
	ListIngredients(ctx context.Context) ([]remote.Ingredient, error)
	CreateIngredient(ctx context.Context, ingredient remote.NewIngredient) error
	DeleteIngredients(ctx context.Context, ids []int) error
}

type ingredientForm struct {
	Name string
	Code string
}

type listData struct {
	Table views.Table[remote.Ingredient]
	Form  ingredientForm
}

type Handler struct {
	api      ingredientsAPI
	renderer *views.Renderer
}

func NewHandler(api ingredientsAPI, renderer *views.Renderer) *Handler {
	return &Handler{
		api:      api,
		renderer: renderer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(listPath, handler.handleList).Methods("GET").Name("ingredients")
	router.HandleFunc(listPath, handler.handleCreate).Methods("POST").Name("ingredient-create")
	router.HandleFunc(listPath+"/delete", handler.handleDelete).Methods("POST").Name("ingredients-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "ingredientsHandler.list")
	defer span.End()

	handler.render(ctx, w, r, http.StatusOK, ingredientForm{}, nil, nil)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "ingredientsHandler.create")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("create ingredient, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	form := ingredientForm{
		Name: strings.TrimSpace(r.PostForm.Get("name")),
		Code: strings.TrimSpace(r.PostForm.Get("ingredient_code")),
	}
	fieldErrors := views.FieldErrors{}
	fieldErrors.Required("name", "Name", form.Name)
	fieldErrors.Required("ingredient_code", "Ingredient code", form.Code)
	if fieldErrors.Any() {
		span.SetStatus(codes.Error, "invalid-form")
		handler.render(ctx, w, r, http.StatusBadRequest, form, fieldErrors, nil)
		return
	}

	if err := handler.api.CreateIngredient(ctx, remote.NewIngredient{Name: form.Name, Code: form.Code}); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "create ingredient", err) {
			return
		}
		views.SetFlash(w, views.Error("Error", "Failed to create ingredient"))
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("Ingredient created", fmt.Sprintf("Ingredient '%s' has been added.", form.Name)))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

// handleDelete blocks until every selected ingredient delete has settled, so the
// redirected list is fetched only afterwards.
func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "ingredientsHandler.delete")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("delete ingredients, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	selection, err := views.ParseSelection(r.PostForm[views.SelectionParam])
	if err != nil {
		log.Errorf("delete ingredients: %s", err)
		http.Error(w, "invalid selection", http.StatusBadRequest)
		return
	}
	if selection.Len() == 0 {
		flash := views.Error("Nothing selected", "Select at least one ingredient to delete.")
		handler.render(ctx, w, r, http.StatusBadRequest, ingredientForm{}, nil, &flash)
		return
	}

	ids := selection.IDs()
	span.SetAttributes(attribute.Int("ingredients.count", len(ids)))

	if err := handler.api.DeleteIngredients(ctx, ids); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "delete ingredients", err) {
			return
		}
		views.SetFlash(w, views.Error("Delete failed", "Failed to delete selected ingredients"))
		http.Redirect(w, r, listPath, http.StatusSeeOther)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("Ingredients deleted", fmt.Sprintf("%d ingredient(s) deleted.", len(ids))))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (handler *Handler) render(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form ingredientForm,
	fieldErrors views.FieldErrors,
	flash *views.Flash,
) {
	ingredients, err := handler.api.ListIngredients(ctx)
	if err != nil {
		if views.HandleRemoteError(w, r, "list ingredients", err) {
			return
		}
		ingredients = nil
	}

	ids := make([]int, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ids = append(ids, ingredient.ID)
	}
	selection, err := views.ApplyQuery(r.URL.Query(), ids)
	if err != nil {
		log.Debugf("list ingredients, ignoring selection: %s", err)
		selection = views.NewSelection()
	}

	page := views.NewPage(w, r, "Ingredients", "ingredients")
	if fieldErrors != nil {
		page.Errors = fieldErrors
	}
	if flash != nil {
		page.Flash = flash
	}
	page.Data = listData{
		Table: views.NewTable(selection, ingredients, func(i remote.Ingredient) int { return i.ID }, r.URL.Query().Get("confirm") != ""),
		Form:  form,
	}
	handler.renderer.Render(w, status, views.PageIngredients, page)
}
