package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	recipe *model.Recipe
	err    error
}

func (f *fakeGenerator) GenerateRecipe(_ context.Context, _ string) (*model.Recipe, error) {
	return f.recipe, f.err
}

func setupServer(t *testing.T, generator RecipeGenerator, recipes map[string]string) *WebServer {
	t.Helper()
	dir := t.TempDir()
	for id, content := range recipes {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0o644))
	}

	s, err := store.New(dir, nil)
	require.NoError(t, err)
	return NewServer(s, generator, nil)
}

func get(srv *WebServer, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

func postForm(srv *WebServer, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, req)
	return w
}

const pancakesJSON = `{"name": "Pancakes", "ingredients": ["flour", "egg", "milk"], "steps": ["mix", "cook"]}`

func TestHomePageListsRecipes(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{
		"pancakes": pancakesJSON,
		"waffles":  `{"name": "Waffles", "ingredients": ["flour"], "steps": ["bake"]}`,
	})

	w := get(srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Equal(t, 1, strings.Count(body, ">Pancakes</a>"))
	assert.Equal(t, 1, strings.Count(body, ">Waffles</a>"))
	assert.Contains(t, body, `href="/recipe/pancakes"`)
}

func TestHomePageEmptyCollection(t *testing.T) {
	srv := setupServer(t, nil, nil)

	w := get(srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No recipes yet")
}

func TestRecipePage(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/recipe/pancakes")
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Pancakes")
	for _, ingredient := range []string{"flour", "egg", "milk"} {
		assert.Contains(t, body, ingredient)
	}
	for _, step := range []string{"mix", "cook"} {
		assert.Contains(t, body, step)
	}
	assert.Contains(t, body, `href="/recipe/pancakes/json"`)
}

func TestRecipePageNotFound(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/recipe/nonexistent")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Recipe not found")
}

func TestJSONPage(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/recipe/pancakes/json")
	assert.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Pancakes")
	assert.Contains(t, body, `id="recipe-json"`)
	assert.Contains(t, body, `id="copy-json-btn"`)
	assert.Contains(t, body, "clipboard.js")
}

func TestJSONPageNotFound(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/recipe/nonexistent/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIListRecipes(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{
		"pancakes": pancakesJSON,
		"waffles":  `{"name": "Waffles", "ingredients": ["flour"], "steps": ["bake"]}`,
	})

	w := get(srv, "/api/v1/recipes")
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Recipes []store.Summary `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Recipes, 2)
	assert.Equal(t, "pancakes", response.Recipes[0].ID)
	assert.Equal(t, "Pancakes", response.Recipes[0].Name)
}

func TestAPIGetRecipeMatchesSource(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/api/v1/recipes/pancakes")
	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "pancakes", got["id"])
	assert.Equal(t, "Pancakes", got["name"])
	assert.Equal(t, []interface{}{"flour", "egg", "milk"}, got["ingredients"])
	assert.Equal(t, []interface{}{"mix", "cook"}, got["steps"])
}

func TestAPIGetRecipeNotFound(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/api/v1/recipes/nonexistent")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Recipe not found", response["error"])
}

func TestGeneratePageWithoutGenerator(t *testing.T) {
	srv := setupServer(t, nil, nil)

	w := get(srv, "/generate")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestGenerateSubmitWithoutGenerator(t *testing.T) {
	srv := setupServer(t, nil, nil)

	w := postForm(srv, "/generate", url.Values{"prompt": {"chili"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateSubmitEmptyPrompt(t *testing.T) {
	srv := setupServer(t, &fakeGenerator{}, nil)

	w := postForm(srv, "/generate", url.Values{"prompt": {"   "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "prompt describing the desired recipe is required")
}

func TestGenerateSubmitSavesAndRedirects(t *testing.T) {
	generator := &fakeGenerator{
		recipe: &model.Recipe{
			Name:        "Vegan Chili",
			Ingredients: model.IngredientList{{Name: "beans"}, {Name: "tomatoes"}},
			Steps:       model.StepList{{Description: "simmer"}},
		},
	}
	srv := setupServer(t, generator, nil)

	w := postForm(srv, "/generate", url.Values{"prompt": {"a spicy chili"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/recipe/vegan_chili", w.Header().Get("Location"))

	// The generated recipe is now served like any other.
	w = get(srv, "/recipe/vegan_chili")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Vegan Chili")

	// And it was written to the recipes directory.
	_, err := os.Stat(filepath.Join(srv.Store.Dir(), "vegan_chili.json"))
	assert.NoError(t, err)
}

func TestGenerateSubmitGeneratorFailure(t *testing.T) {
	srv := setupServer(t, &fakeGenerator{err: fmt.Errorf("model unavailable")}, nil)

	w := postForm(srv, "/generate", url.Values{"prompt": {"chili"}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "error generating the recipe")
	// Details stay in the logs, not the page.
	assert.NotContains(t, w.Body.String(), "model unavailable")
}

func TestHealthz(t *testing.T) {
	srv := setupServer(t, nil, map[string]string{"pancakes": pancakesJSON})

	w := get(srv, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, float64(1), response["recipes"])
}

func TestStaticAssets(t *testing.T) {
	srv := setupServer(t, nil, nil)

	for _, path := range []string{"/static/style.css", "/static/clipboard.js"} {
		w := get(srv, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestUnknownRouteRenders404Page(t *testing.T) {
	srv := setupServer(t, nil, nil)

	w := get(srv, "/no/such/page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}
