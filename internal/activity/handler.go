package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"
	"github.com/odensebartech/dashboard/internal/views"
	"github.com/odensebartech/dashboard/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	pagePath = "/dashboard/activity"
	dataPath = "/dashboard/activity/data"
)

type statsSource interface {
	Stats(ctx context.Context) ([]remote.HourStat, error)
}

type pageData struct {
	Recipes  []string
	Selected string
	DataURL  string
	Series   Series
}

type Handler struct {
	source   statsSource
	renderer *views.Renderer
}

func NewHandler(source statsSource, renderer *views.Renderer) *Handler {
	return &Handler{
		source:   source,
		renderer: renderer,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc(pagePath, handler.handlePage).Methods("GET").Name("activity")
	router.HandleFunc(dataPath, handler.handleData).Methods("GET").Name("activity-data")
}

func selectedRecipe(r *http.Request) string {
	selected := r.URL.Query().Get("recipe")
	if isAllRecipes(selected) {
		return AllRecipes
	}
	return selected
}

func (handler *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "activityHandler.page")
	defer span.End()

	selected := selectedRecipe(r)
	span.SetAttributes(attribute.String("recipe", selected))

	stats, err := handler.source.Stats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "action log stats", err) {
			return
		}
		stats = nil
	}

	page := views.NewPage(w, r, "Activity", "activity")
	page.Data = pageData{
		Recipes:  RecipeNames(stats),
		Selected: selected,
		DataURL:  dataPath + "?" + url.Values{"recipe": {selected}}.Encode(),
		Series:   BuildSeries(stats, selected),
	}
	handler.renderer.Render(w, http.StatusOK, views.PageActivity, page)
}

func (handler *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "activityHandler.data")
	defer span.End()

	selected := selectedRecipe(r)
	span.SetAttributes(attribute.String("recipe", selected))

	stats, err := handler.source.Stats(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if views.HandleRemoteError(w, r, "action log stats data", err) {
			return
		}
		// no token: empty charts, nothing to load
		if !errors.Is(err, remote.ErrMissingToken) {
			http.Error(w, "stats unavailable", http.StatusBadGateway)
			return
		}
		stats = nil
	}

	dataBytes, err := json.Marshal(BuildSeries(stats, selected).ChartData())
	if err != nil {
		log.Errorf("marshal chart data: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, dataBytes)
}
