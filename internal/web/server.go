// Package web provides the HTTP server and web interface for recipebook
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/plantbased/recipebook/config"
	"github.com/plantbased/recipebook/internal/middleware"
	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/internal/store"
	"github.com/plantbased/recipebook/pkg/log"
)

// RecipeGenerator produces a new recipe from a free-form prompt.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, prompt string) (*model.Recipe, error)
}

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Store     *store.Store
	Generator RecipeGenerator // nil when generation is not configured

	logger    log.Logger
	http      *http.Server
	templates map[string]*template.Template
	startTime time.Time
}

// NewServer creates a new web server instance. generator may be nil, in
// which case the generate page reports that generation is disabled.
func NewServer(s *store.Store, generator RecipeGenerator, logger log.Logger) *WebServer {
	if logger == nil {
		logger = log.Nop()
	}
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	router.Use(middleware.CORS())

	server := &WebServer{
		Router:    router,
		Store:     s,
		Generator: generator,
		logger:    logger,
		startTime: time.Now(),
	}

	server.loadTemplates()
	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	s.Router.GET("/static/*filepath", EmbeddedStaticHandler("/static"))

	// HTML pages
	s.Router.GET("/", s.homePage)
	s.Router.GET("/recipe/:id", s.recipePage)
	s.Router.GET("/recipe/:id/json", s.recipeJSONPage)
	s.Router.GET("/generate", s.generatePage)
	s.Router.POST("/generate", s.generateSubmit)

	s.Router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"recipes": s.Store.Count(),
			"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		})
	})

	// JSON API
	api := s.Router.Group("/api/v1")
	{
		api.GET("/recipes", s.listRecipes)
		api.GET("/recipes/:id", s.getRecipe)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})
}

// Start starts the server and blocks until it stops
func (s *WebServer) Start(addr string) error {
	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.logger.Info("web server listening", log.String("addr", addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *WebServer) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
