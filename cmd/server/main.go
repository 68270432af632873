package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantbased/recipebook/config"
	"github.com/plantbased/recipebook/internal/service"
	"github.com/plantbased/recipebook/internal/store"
	"github.com/plantbased/recipebook/internal/web"
	"github.com/plantbased/recipebook/pkg/log"
)

func main() {
	logger := log.NewZerologAdapter()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", log.Err(err))
		os.Exit(1)
	}

	recipeStore, err := store.New(cfg.RecipesDir, logger)
	if err != nil {
		logger.Error("failed to load recipes", log.Err(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchRecipes {
		watcher, err := store.NewWatcher(recipeStore, logger)
		if err != nil {
			logger.Error("failed to watch recipes directory", log.Err(err))
			os.Exit(1)
		}
		watcher.Start(ctx)
		defer watcher.Close()
	}

	var generator web.RecipeGenerator
	if cfg.GenerationEnabled() {
		llm, err := service.NewLLMService(cfg, logger)
		if err != nil {
			logger.Error("failed to configure recipe generation", log.Err(err))
			os.Exit(1)
		}
		generator = llm
	} else {
		logger.Warn("LLM_API_KEY not set, recipe generation disabled")
	}

	srv := web.NewServer(recipeStore, generator, logger)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.Addr())
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", log.Err(err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal, shutting down", log.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", log.Err(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
