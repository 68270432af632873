package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/plantbased/recipebook/pkg/log"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Pages rendered by the server. Each page is parsed together with base.html
// so pages can share one layout without template name conflicts.
var pageTemplates = []string{
	"home.html",
	"recipe.html",
	"json_viewer.html",
	"generate.html",
	"error.html",
}

func (s *WebServer) loadTemplates() {
	s.templates = make(map[string]*template.Template)
	for _, page := range pageTemplates {
		s.templates[page] = template.Must(
			template.ParseFS(templatesFS, "templates/base.html", "templates/"+page))
	}
}

// render executes one of the parsed page templates.
func (s *WebServer) render(c *gin.Context, status int, page string, data interface{}) {
	tmpl, ok := s.templates[page]
	if !ok {
		c.String(http.StatusInternalServerError, "unknown template %s", page)
		return
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		s.logger.Error("template error", log.String("page", page), log.Err(err))
	}
}

// EmbeddedStaticHandler returns a Gin handler serving the embedded static
// assets.
func EmbeddedStaticHandler(prefix string) gin.HandlerFunc {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to create embedded static filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if path == "" || path == "/" {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Request.URL.Path = path
		c.Header("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
