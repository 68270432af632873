// Seeds the recipes directory with a handful of sample recipes so the site
// has content on first run. Existing recipes are never overwritten.
package main

import (
	"os"

	"github.com/plantbased/recipebook/config"
	"github.com/plantbased/recipebook/internal/model"
	"github.com/plantbased/recipebook/internal/store"
	"github.com/plantbased/recipebook/pkg/log"
)

var sampleRecipes = []model.Recipe{
	{
		Name:        "Vegan Pancakes",
		Description: "Fluffy weekend pancakes without eggs or dairy.",
		Category:    "Breakfast",
		Ingredients: model.IngredientList{
			{Name: "flour", Amount: 2, Units: "cups"},
			{Name: "oat milk", Amount: 1.5, Units: "cups"},
			{Name: "baking powder", Amount: 1, Units: "tbsp"},
			{Name: "maple syrup", Amount: 2, Units: "tbsp"},
		},
		Steps: model.StepList{
			{Description: "Whisk the dry ingredients together."},
			{Description: "Stir in the oat milk and maple syrup until just combined."},
			{Description: "Cook on a hot oiled griddle until bubbles form, then flip."},
		},
		PrepTime: model.NewNumberValue(10),
		CookTime: model.NewNumberValue(15),
		Servings: model.NewNumberValue(4),
	},
	{
		Name:        "Lentil Soup",
		Description: "A hearty red lentil soup with cumin and lemon.",
		Category:    "Soup",
		Ingredients: model.IngredientList{
			{Name: "red lentils", Amount: 1, Units: "cup"},
			{Name: "onion, diced", Amount: 1},
			{Name: "ground cumin", Amount: 2, Units: "tsp"},
			{Name: "vegetable stock", Amount: 4, Units: "cups"},
			{Name: "lemon, juiced", Amount: 0.5},
		},
		Steps: model.StepList{
			{Description: "Soften the onion in a little olive oil."},
			{Description: "Add the cumin, lentils and stock and simmer for 25 minutes."},
			{Description: "Finish with lemon juice and season to taste."},
		},
		PrepTime: model.NewNumberValue(10),
		CookTime: model.NewNumberValue(30),
		Servings: model.NewNumberValue(4),
	},
	{
		Name:        "Chickpea Salad",
		Description: "A quick lunch salad with chickpeas, cucumber and herbs.",
		Category:    "Salad",
		Ingredients: model.IngredientList{
			{Name: "cooked chickpeas", Amount: 2, Units: "cups"},
			{Name: "cucumber, diced", Amount: 1},
			{Name: "cherry tomatoes, halved", Amount: 1, Units: "cup"},
			{Name: "fresh parsley", Amount: 0.25, Units: "cup"},
			{Name: "olive oil", Amount: 2, Units: "tbsp"},
		},
		Steps: model.StepList{
			{Description: "Toss everything together in a large bowl."},
			{Description: "Season with salt, pepper and a squeeze of lemon."},
		},
		PrepTime: model.NewNumberValue(10),
		Servings: model.NewNumberValue(2),
	},
}

func main() {
	logger := log.NewZerologAdapter()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", log.Err(err))
		os.Exit(1)
	}

	recipeStore, err := store.New(cfg.RecipesDir, logger)
	if err != nil {
		logger.Error("failed to open recipes directory", log.Err(err))
		os.Exit(1)
	}

	seeded := 0
	for i := range sampleRecipes {
		recipe := sampleRecipes[i]
		if _, exists := recipeStore.Get(model.Slugify(recipe.Name)); exists {
			logger.Info("recipe already present, skipping", log.String("name", recipe.Name))
			continue
		}
		id, err := recipeStore.Save(&recipe)
		if err != nil {
			logger.Error("failed to seed recipe", log.String("name", recipe.Name), log.Err(err))
			os.Exit(1)
		}
		logger.Info("seeded recipe", log.String("id", id))
		seeded++
	}

	logger.Info("seeding complete", log.Int("seeded", seeded), log.Int("total", recipeStore.Count()))
}
