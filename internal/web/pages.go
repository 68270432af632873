package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/internal/store"
	"github.com/plantbased/recipebook/pkg/log"
)

// TemplateData represents common template data
type TemplateData struct {
	Title             string
	GenerationEnabled bool
}

// HomePageData represents data for the recipe list page
type HomePageData struct {
	TemplateData
	Recipes []store.Summary
}

// RecipePageData represents data for the recipe detail page
type RecipePageData struct {
	TemplateData
	Recipe model.Recipe
}

// JSONPageData represents data for the JSON viewer page
type JSONPageData struct {
	TemplateData
	Recipe     model.Recipe
	RecipeJSON string
}

// GeneratePageData represents data for the generate page
type GeneratePageData struct {
	TemplateData
	Prompt   string
	Error    string
	Disabled bool
}

// ErrorPageData represents data for the error page
type ErrorPageData struct {
	TemplateData
	Status  int
	Message string
}

func (s *WebServer) baseTemplateData(title string) TemplateData {
	return TemplateData{
		Title:             title,
		GenerationEnabled: s.Generator != nil,
	}
}

func (s *WebServer) homePage(c *gin.Context) {
	data := HomePageData{
		TemplateData: s.baseTemplateData("Recipes"),
		Recipes:      s.Store.List(),
	}
	s.render(c, http.StatusOK, "home.html", data)
}

func (s *WebServer) recipePage(c *gin.Context) {
	id := c.Param("id")
	recipe, ok := s.Store.Get(id)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Recipe not found")
		return
	}

	data := RecipePageData{
		TemplateData: s.baseTemplateData(recipe.Name),
		Recipe:       recipe,
	}
	s.render(c, http.StatusOK, "recipe.html", data)
}

func (s *WebServer) recipeJSONPage(c *gin.Context) {
	id := c.Param("id")
	recipe, ok := s.Store.Get(id)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Recipe not found")
		return
	}
	raw, _ := s.Store.RawJSON(id)

	data := JSONPageData{
		TemplateData: s.baseTemplateData(recipe.Name + " (JSON)"),
		Recipe:       recipe,
		RecipeJSON:   raw,
	}
	s.render(c, http.StatusOK, "json_viewer.html", data)
}

func (s *WebServer) generatePage(c *gin.Context) {
	data := GeneratePageData{
		TemplateData: s.baseTemplateData("Generate a recipe"),
		Disabled:     s.Generator == nil,
	}
	s.render(c, http.StatusOK, "generate.html", data)
}

func (s *WebServer) generateSubmit(c *gin.Context) {
	if s.Generator == nil {
		s.renderError(c, http.StatusInternalServerError,
			"Recipe generation is not configured. Set the LLM_API_KEY environment variable and restart the application.")
		return
	}

	prompt := strings.TrimSpace(c.PostForm("prompt"))
	if prompt == "" {
		data := GeneratePageData{
			TemplateData: s.baseTemplateData("Generate a recipe"),
			Error:        "A prompt describing the desired recipe is required.",
		}
		s.render(c, http.StatusBadRequest, "generate.html", data)
		return
	}

	recipe, err := s.Generator.GenerateRecipe(c.Request.Context(), prompt)
	if err != nil {
		s.logger.Error("recipe generation failed", log.Err(err))
		data := GeneratePageData{
			TemplateData: s.baseTemplateData("Generate a recipe"),
			Prompt:       prompt,
			Error:        "Sorry, there was an error generating the recipe. Please try again.",
		}
		s.render(c, http.StatusBadGateway, "generate.html", data)
		return
	}

	id, err := s.Store.Save(recipe)
	if err != nil {
		s.logger.Error("failed to save generated recipe", log.Err(err))
		s.renderError(c, http.StatusInternalServerError, "Failed to save the generated recipe.")
		return
	}

	c.Redirect(http.StatusSeeOther, "/recipe/"+id)
}

// renderError renders the error page with the given status
func (s *WebServer) renderError(c *gin.Context, status int, message string) {
	data := ErrorPageData{
		TemplateData: s.baseTemplateData(http.StatusText(status)),
		Status:       status,
		Message:      message,
	}
	s.render(c, status, "error.html", data)
}
