package recipes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/views"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setupRouter(t *testing.T, api recipesAPI) *mux.Router {
	t.Helper()
	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	r := mux.NewRouter()
	NewHandler(api, renderer).SetupRoutes(r)
	return r
}

func withSession(req *http.Request) *http.Request {
	ctx := session.WithSession(req.Context(), &session.Session{Token: "tkn", Username: "ana"})
	return req.WithContext(ctx)
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withSession(req))
	return rr
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewHandler(t *testing.T) {
	router := setupRouter(t, newTestApi())

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"list":   {name: "recipes", path: "/dashboard/recipes", method: "GET"},
		"create": {name: "recipe-create", path: "/dashboard/recipes", method: "POST"},
		"new":    {name: "recipe-new", path: "/dashboard/recipes/new", method: "GET"},
		"detail": {name: "recipe", path: "/dashboard/recipes/12", method: "GET"},
		"delete": {name: "recipe-delete", path: "/dashboard/recipes/12/delete", method: "POST"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)
			routeMatch := &mux.RouteMatch{}
			require.True(t, router.Match(req, routeMatch))
			assert.Equal(t, route.name, routeMatch.Route.GetName())
		})
	}
}

func TestHandler_List(t *testing.T) {
	api := newTestApi()
	names := []string{}
	for id := 1; id <= 3; id++ {
		name := gofakeit.BeerName()
		names = append(names, name)
		api.add(remote.Recipe{ID: id, Name: name, Available: id%2 == 0})
	}
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("GET", "/dashboard/recipes", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	for _, name := range names {
		assert.Contains(t, body, templateEscape(name))
	}
	assert.Contains(t, body, `href="/dashboard/recipes/2"`)
	assert.Contains(t, body, "Logged in as <strong>ana</strong>")
}

func TestHandler_ListRemoteFailureRendersEmpty(t *testing.T) {
	api := newTestApi()
	api.add(remote.Recipe{ID: 1, Name: "Vodka Sour"})
	api.err = errors.New("dial tcp: connection refused")
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("GET", "/dashboard/recipes", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No recipes found.")
}

func TestHandler_ListUnauthorizedLogsOut(t *testing.T) {
	api := newTestApi()
	api.err = &remote.StatusError{StatusCode: http.StatusUnauthorized}
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("GET", "/dashboard/recipes", nil))
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/session/expired", rr.Header().Get("Location"))
}

func TestHandler_ListWithoutTokenMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := remote.NewClient(server.URL, server.Client(), session.ContextProvider{}, nil)
	router := setupRouter(t, client)

	// no session in the context at all
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/dashboard/recipes", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No recipes found.")
	assert.Equal(t, int32(0), calls.Load())
}

func TestHandler_New(t *testing.T) {
	api := newTestApi()
	api.ingredients = []remote.Ingredient{{ID: 1, Name: "Vodka", Code: "VOD"}, {ID: 2, Name: "Orange juice", Code: "OJ"}}
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("GET", "/dashboard/recipes/new", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<option value="VOD">Vodka (VOD)</option>`)
	assert.Contains(t, body, `<option value="OJ">Orange juice (OJ)</option>`)
	assert.Equal(t, minFormRows, strings.Count(body, `name="amount"`))
	// new recipes default to available
	assert.Contains(t, body, `value="true" checked`)
}

func TestHandler_Create(t *testing.T) {
	api := newTestApi()
	router := setupRouter(t, api)

	rr := serve(router, postForm("/dashboard/recipes", url.Values{
		"name":            {"Vodka Sunrise"},
		"available":       {"true"},
		"ingredient_code": {"VOD", "OJ", ""},
		"amount":          {"40", "120", ""},
	}))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/recipes", rr.Header().Get("Location"))
	require.Len(t, api.created, 1)
	assert.Equal(t, "Vodka Sunrise", api.created[0].Name)
	assert.Len(t, api.created[0].Ingredients, 2)
}

func TestHandler_CreateInvalidMakesNoCall(t *testing.T) {
	api := newTestApi()
	router := setupRouter(t, api)

	rr := serve(router, postForm("/dashboard/recipes", url.Values{
		"name":            {""},
		"ingredient_code": {"VOD"},
		"amount":          {"0"},
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Name is required")
	assert.Contains(t, rr.Body.String(), "at least 1 ml")
	assert.Empty(t, api.created)
}

func TestHandler_CreateRemoteRejects(t *testing.T) {
	api := newTestApi()
	api.err = &remote.StatusError{StatusCode: http.StatusUnprocessableEntity, Body: "unknown ingredient"}
	router := setupRouter(t, api)

	rr := serve(router, postForm("/dashboard/recipes", url.Values{
		"name":            {"Mystery"},
		"ingredient_code": {"XXX"},
		"amount":          {"10"},
	}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to create recipe")
	// the form keeps what was typed
	assert.Contains(t, rr.Body.String(), `value="Mystery"`)
}

func TestHandler_Detail(t *testing.T) {
	api := newTestApi()
	api.add(remote.Recipe{
		ID:        7,
		Name:      "Peachy Beach",
		Available: true,
		Ingredients: []remote.RecipeIngredient{
			{Ingredient: remote.Ingredient{ID: 3, Name: "Peach schnapps", Code: "PCH"}, Amount: 30},
		},
	})
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("GET", "/dashboard/recipes/7", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "<h1>Peachy Beach</h1>")
	assert.Contains(t, rr.Body.String(), "Peach schnapps")
	assert.Contains(t, rr.Body.String(), `href="/dashboard/recipes/7?confirm=1"`)

	rr = serve(router, httptest.NewRequest("GET", "/dashboard/recipes/7?confirm=1", nil))
	assert.Contains(t, rr.Body.String(), `action="/dashboard/recipes/7/delete"`)

	rr = serve(router, httptest.NewRequest("GET", "/dashboard/recipes/99", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Recipe not found.")
}

func TestHandler_Delete(t *testing.T) {
	api := newTestApi()
	api.add(remote.Recipe{ID: 7, Name: "Peachy Beach"})
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("POST", "/dashboard/recipes/7/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/recipes", rr.Header().Get("Location"))
	assert.Equal(t, []int{7}, api.deleted)

	// already gone
	rr = serve(router, httptest.NewRequest("POST", "/dashboard/recipes/7/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/recipes/7", rr.Header().Get("Location"))
}

func TestHandler_DeleteUnauthorized(t *testing.T) {
	api := newTestApi()
	api.err = &remote.StatusError{StatusCode: http.StatusForbidden}
	router := setupRouter(t, api)

	rr := serve(router, httptest.NewRequest("POST", "/dashboard/recipes/7/delete", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/session/expired", rr.Header().Get("Location"))
}

func templateEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "'", "&#39;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "+", "&#43;")
	return r.Replace(s)
}

var _ recipesAPI = (*remote.Client)(nil)
