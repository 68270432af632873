// Package store holds the recipe collection, backed by a directory of
// per-recipe JSON files.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/pkg/log"
)

// Summary is one row of the recipe list view.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type entry struct {
	recipe model.Recipe
	raw    string // pretty-printed document, id included
}

// Store is the in-memory recipe collection. The collection is replaced as a
// whole on reload; request handlers only take read locks.
type Store struct {
	mu      sync.RWMutex
	dir     string
	recipes map[string]entry
	logger  log.Logger
}

// New creates a store for the given directory and performs the initial load.
// The directory is created if it does not exist. A malformed recipe file at
// this point is a startup error.
func New(dir string, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create recipes directory: %w", err)
	}

	s := &Store{
		dir:     dir,
		recipes: make(map[string]entry),
		logger:  logger,
	}
	if err := s.load(true); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

// Reload re-reads the recipes directory. Unlike the initial load, files that
// fail to parse are logged and skipped so one bad file cannot take down a
// running server.
func (s *Store) Reload() error {
	return s.load(false)
}

func (s *Store) load(strict bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read recipes directory: %w", err)
	}

	recipes := make(map[string]entry)
	for _, dirEntry := range entries {
		name := dirEntry.Name()
		if dirEntry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		id := strings.TrimSuffix(name, ".json")
		e, err := s.loadFile(id, filepath.Join(s.dir, name))
		if err != nil {
			if strict {
				return fmt.Errorf("failed to load recipe %s: %w", name, err)
			}
			s.logger.Warn("skipping unreadable recipe file",
				log.String("file", name), log.Err(err))
			continue
		}
		recipes[id] = e
	}

	s.mu.Lock()
	s.recipes = recipes
	s.mu.Unlock()

	s.logger.Info("recipe collection loaded", log.Int("count", len(recipes)))
	return nil
}

func (s *Store) loadFile(id, path string) (entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entry{}, err
	}

	var recipe model.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return entry{}, fmt.Errorf("invalid JSON: %w", err)
	}
	recipe.ID = id
	if err := recipe.Validate(); err != nil {
		return entry{}, err
	}

	raw, err := prettyDocument(data, id)
	if err != nil {
		return entry{}, err
	}

	return entry{recipe: recipe, raw: raw}, nil
}

// List returns (id, name) pairs for every recipe, sorted by name.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.recipes))
	for id, e := range s.recipes {
		summaries = append(summaries, Summary{ID: id, Name: e.recipe.Name})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Name == summaries[j].Name {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// Get looks up a recipe by identifier.
func (s *Store) Get(id string) (model.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.recipes[id]
	return e.recipe, ok
}

// RawJSON returns the pretty-printed JSON document for a recipe.
func (s *Store) RawJSON(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.recipes[id]
	return e.raw, ok
}

// Count returns the number of recipes in the collection.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}

// Save writes a recipe to the directory and adds it to the collection. The
// identifier is derived from the recipe name; if a recipe with that
// identifier already exists, a numeric suffix is appended rather than
// overwriting it. Returns the identifier under which the recipe was saved.
func (s *Store) Save(recipe *model.Recipe) (string, error) {
	if err := recipe.Validate(); err != nil {
		return "", err
	}

	slug := model.Slugify(recipe.Name)
	if slug == "" {
		return "", fmt.Errorf("recipe name %q produces an empty identifier", recipe.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := slug
	for n := 2; ; n++ {
		if _, taken := s.recipes[id]; !taken {
			if _, err := os.Stat(filepath.Join(s.dir, id+".json")); os.IsNotExist(err) {
				break
			}
		}
		id = fmt.Sprintf("%s_%d", slug, n)
	}
	recipe.ID = id

	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write recipe file: %w", err)
	}

	raw, err := prettyDocument(data, id)
	if err != nil {
		return "", err
	}
	s.recipes[id] = entry{recipe: *recipe, raw: raw}

	s.logger.Info("recipe saved", log.String("id", id))
	return id, nil
}

// prettyDocument re-indents a recipe document with the identifier injected,
// matching what the JSON view displays.
func prettyDocument(data []byte, id string) (string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	doc["id"] = id

	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}
