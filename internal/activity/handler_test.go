package activity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type staticSource struct {
	stats []remote.HourStat
	err   error
}

func (s staticSource) Stats(_ context.Context) ([]remote.HourStat, error) {
	return s.stats, s.err
}

func setupRouter(t *testing.T, source statsSource) *mux.Router {
	t.Helper()
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	r := mux.NewRouter()
	NewHandler(source, renderer).SetupRoutes(r)
	return r
}

func serve(router http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	ctx := session.WithSession(req.Context(), &session.Session{Token: "tkn", Username: "ana"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req.WithContext(ctx))
	return rr
}

func TestNewHandler(t *testing.T) {
	router := setupRouter(t, staticSource{})

	for path, name := range map[string]string{
		"/dashboard/activity":      "activity",
		"/dashboard/activity/data": "activity-data",
	} {
		req, err := http.NewRequest("GET", path, nil)
		require.NoError(t, err)
		routeMatch := &mux.RouteMatch{}
		require.True(t, router.Match(req, routeMatch))
		assert.Equal(t, name, routeMatch.Route.GetName())
	}
}

func TestHandler_Page(t *testing.T) {
	router := setupRouter(t, staticSource{stats: testStats(t)})

	rr := serve(router, "/dashboard/activity?recipe=Rum+%26+Cola")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<option value="Rum &amp; Cola" selected>Rum &amp; Cola</option>`)
	assert.Contains(t, body, `<option value="All Recipes">All Recipes</option>`)
	assert.Contains(t, body, `data-chart-source="/dashboard/activity/data?recipe=Rum&#43;%26&#43;Cola"`)
	assert.Contains(t, body, "<tr><td>14:00</td><td>4</td></tr>")
	assert.Contains(t, body, "<tr><td>Rum &amp; Cola</td><td>7</td></tr>")
}

func TestHandler_PageDefaultsToAllRecipes(t *testing.T) {
	router := setupRouter(t, staticSource{stats: testStats(t)})

	rr := serve(router, "/dashboard/activity")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<option value="All Recipes" selected>All Recipes</option>`)
	assert.Contains(t, rr.Body.String(), "<tr><td>14:00</td><td>7</td></tr>")
}

func TestHandler_PageStatsUnavailable(t *testing.T) {
	router := setupRouter(t, staticSource{err: errors.New("connection refused")})

	rr := serve(router, "/dashboard/activity")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `<option value="All Recipes" selected>All Recipes</option>`)
	assert.NotContains(t, rr.Body.String(), "<tr><td>14:00</td>")
}

func TestHandler_Data(t *testing.T) {
	router := setupRouter(t, staticSource{stats: testStats(t)})

	rr := serve(router, "/dashboard/activity/data?recipe=VodkaSunrise")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"hours": ["12:00", "13:00", "14:00"],
		"values": [0, 2, 1],
		"distribution": [
			{"name": "Peachy Beach", "value": 3},
			{"name": "Rum & Cola", "value": 7},
			{"name": "Vodka Sunrise", "value": 3}
		]
	}`, rr.Body.String())
}

func TestHandler_DataErrors(t *testing.T) {
	router := setupRouter(t, staticSource{err: errors.New("connection refused")})
	rr := serve(router, "/dashboard/activity/data")
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	router = setupRouter(t, staticSource{err: remote.ErrUnauthorized})
	rr = serve(router, "/dashboard/activity/data")
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/session/expired", rr.Header().Get("Location"))
}

func TestHandler_DataMissingToken(t *testing.T) {
	router := setupRouter(t, staticSource{err: remote.ErrMissingToken})

	rr := serve(router, "/dashboard/activity/data?recipe=RumCola")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hours": [], "values": [], "distribution": []}`, rr.Body.String())
}
