package recipes

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/odensebartech/dashboard/internal/remote"
)

// testApi is an in-memory remote authority for recipes.
type testApi struct {
	mu          sync.Mutex
	recipes     map[int]remote.Recipe
	ingredients []remote.Ingredient
	created     []remote.NewRecipe
	deleted     []int
	err         error
}

func newTestApi() *testApi {
	return &testApi{
		recipes: map[int]remote.Recipe{},
	}
}

func (api *testApi) add(r remote.Recipe) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.recipes[r.ID] = r
}

func (api *testApi) ListRecipes(_ context.Context) ([]remote.Recipe, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.err != nil {
		return nil, api.err
	}
	list := make([]remote.Recipe, 0, len(api.recipes))
	for _, r := range api.recipes {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (api *testApi) GetRecipe(_ context.Context, id int) (*remote.Recipe, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.err != nil {
		return nil, api.err
	}
	r, ok := api.recipes[id]
	if !ok {
		return nil, &remote.StatusError{Op: "get_recipe", StatusCode: http.StatusNotFound}
	}
	return &r, nil
}

func (api *testApi) CreateRecipe(_ context.Context, recipe remote.NewRecipe) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.err != nil {
		return api.err
	}
	api.created = append(api.created, recipe)
	return nil
}

func (api *testApi) DeleteRecipe(_ context.Context, id int) error {
	api.mu.Lock()
	defer api.mu.Unlock()
	if api.err != nil {
		return api.err
	}
	if _, ok := api.recipes[id]; !ok {
		return &remote.StatusError{Op: "delete_recipe", StatusCode: http.StatusNotFound}
	}
	delete(api.recipes, id)
	api.deleted = append(api.deleted, id)
	return nil
}

func (api *testApi) ListIngredients(_ context.Context) ([]remote.Ingredient, error) {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.ingredients, nil
}
