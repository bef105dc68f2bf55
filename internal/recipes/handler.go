package recipes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"
	"github.com/odensebartech/dashboard/internal/views"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const listPath = "/dashboard/recipes"

type recipesAPI interface {
	ListRecipes(ctx context.Context) ([]remote.Recipe, error)
	GetRecipe(ctx context.Context, id int) (*remote.Recipe, error)
	CreateRecipe(ctx context.Context, recipe remote.NewRecipe) error
	DeleteRecipe(ctx context.Context, id int) error
	ListIngredients(ctx context.Context) ([]remote.Ingredient, error)
}

type listData struct {
	Recipes []remote.Recipe
}

type newData struct {
	Ingredients []remote.Ingredient
	Form        recipeForm
}

type detailData struct {
	Recipe  *remote.Recipe
	Confirm bool
}

type Handler struct {
	api      recipesAPI
	renderer *views.Renderer
}

func NewHandler(api recipesAPI, renderer *views.Renderer) *Handler {
	return &Handler{
		api:      api,
		renderer: renderer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(listPath, handler.handleList).Methods("GET").Name("recipes")
	router.HandleFunc(listPath, handler.handleCreate).Methods("POST").Name("recipe-create")
	router.HandleFunc(listPath+"/new", handler.handleNew).Methods("GET").Name("recipe-new")
	router.HandleFunc(listPath+"/{id:[0-9]+}", handler.handleDetail).Methods("GET").Name("recipe")
	router.HandleFunc(listPath+"/{id:[0-9]+}/delete", handler.handleDelete).Methods("POST").Name("recipe-delete")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recipesHandler.list")
	defer span.End()

	recipes, err := handler.api.ListRecipes(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "list recipes", err) {
			return
		}
		recipes = nil
	}

	page := views.NewPage(w, r, "Recipes", "recipes")
	page.Data = listData{Recipes: recipes}
	handler.renderer.Render(w, http.StatusOK, views.PageRecipes, page)
}

func (handler *Handler) handleNew(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recipesHandler.new")
	defer span.End()

	ingredients, ok := handler.ingredientOptions(ctx, w, r)
	if !ok {
		return
	}

	page := views.NewPage(w, r, "New recipe", "recipes")
	page.Data = newData{
		Ingredients: ingredients,
		Form:        newRecipeForm(),
	}
	handler.renderer.Render(w, http.StatusOK, views.PageRecipeNew, page)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recipesHandler.create")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		log.Errorf("create recipe, parse form error: %s", err)
		http.Error(w, "parse form error", http.StatusBadRequest)
		return
	}

	form, recipe, fieldErrors := parseRecipeForm(r.PostForm)
	if fieldErrors.Any() {
		span.SetStatus(codes.Error, "invalid-form")
		handler.renderForm(ctx, w, r, http.StatusBadRequest, form, fieldErrors, nil)
		return
	}

	if err := handler.api.CreateRecipe(ctx, recipe); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "create recipe", err) {
			return
		}
		flash := views.Error("Error", "Failed to create recipe")
		handler.renderForm(ctx, w, r, views.RemoteErrorStatus(err), form, nil, &flash)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("Recipe created", fmt.Sprintf("Recipe '%s' has been added.", recipe.Name)))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func (handler *Handler) renderForm(
	ctx context.Context,
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form recipeForm,
	fieldErrors views.FieldErrors,
	flash *views.Flash,
) {
	ingredients, ok := handler.ingredientOptions(ctx, w, r)
	if !ok {
		return
	}

	page := views.NewPage(w, r, "New recipe", "recipes")
	if fieldErrors != nil {
		page.Errors = fieldErrors
	}
	if flash != nil {
		page.Flash = flash
	}
	page.Data = newData{
		Ingredients: ingredients,
		Form:        form,
	}
	handler.renderer.Render(w, status, views.PageRecipeNew, page)
}

// ingredientOptions feeds the ingredient picker; a failed fetch leaves it empty.
func (handler *Handler) ingredientOptions(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]remote.Ingredient, bool) {
	ingredients, err := handler.api.ListIngredients(ctx)
	if err != nil {
		if views.HandleRemoteError(w, r, "list ingredient options", err) {
			return nil, false
		}
		return nil, true
	}
	return ingredients, true
}

func (handler *Handler) handleDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recipesHandler.detail")
	defer span.End()

	id, err := recipeID(r)
	if err != nil {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("recipe.id", id))

	status := http.StatusOK
	recipe, err := handler.api.GetRecipe(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, fmt.Sprintf("get recipe %d", id), err) {
			return
		}
		recipe = nil
		status = http.StatusNotFound
		if !errors.Is(err, remote.ErrNotFound) {
			status = http.StatusBadGateway
		}
	}

	page := views.NewPage(w, r, "Recipe", "recipes")
	page.Data = detailData{
		Recipe:  recipe,
		Confirm: r.URL.Query().Get("confirm") != "",
	}
	handler.renderer.Render(w, status, views.PageRecipeDetail, page)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "recipesHandler.delete")
	defer span.End()

	id, err := recipeID(r)
	if err != nil {
		http.Error(w, "invalid recipe id", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.Int("recipe.id", id))

	if err := handler.api.DeleteRecipe(ctx, id); err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, fmt.Sprintf("delete recipe %d", id), err) {
			return
		}
		views.SetFlash(w, views.Error("Delete failed", "The recipe could not be deleted."))
		http.Redirect(w, r, fmt.Sprintf("%s/%d", listPath, id), http.StatusSeeOther)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	views.SetFlash(w, views.Success("Recipe deleted", ""))
	http.Redirect(w, r, listPath, http.StatusSeeOther)
}

func recipeID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}
