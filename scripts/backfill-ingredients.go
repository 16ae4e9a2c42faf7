// Backfills the ingredients column for recipes created before the
// field existed. Each affected recipe receives the provided ingredient
// list (or a built-in sample list when none is given); recipes that
// already have ingredients are left alone.
//
// Usage:
//
//	go run scripts/backfill-ingredients.go -database-url postgres://... \
//	    [-ingredients "2 cups kidney beans;1 large onion"] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/recipevault/recipevault/internal/repository"
)

// sampleIngredients matches the Kidney Bean Curry recipe the backlog
// of legacy records was seeded with.
var sampleIngredients = []string{
	"2 cups kidney beans (rajma)",
	"1 large onion, finely chopped",
	"3-4 tomatoes, pureed",
	"2 tsp ginger paste",
	"1 tsp turmeric powder",
	"1 tsp Kashmiri chili powder",
	"2 tsp coriander powder",
	"1 tsp garam masala",
	"1/2 cup plain yogurt",
	"2 tbsp ghee or oil",
	"1 tsp cumin seeds",
	"1/4 tsp asafetida (hing)",
	"Fresh cilantro for garnish",
	"Salt to taste",
	"7 cups water",
}

func main() {
	var (
		databaseURL     = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		ingredientsFlag = flag.String("ingredients", "", "Semicolon-separated ingredient list (default: built-in sample list)")
		dryRun          = flag.Bool("dry-run", false, "Print planned updates without writing")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ingredients := sampleIngredients
	if *ingredientsFlag != "" {
		ingredients = parseIngredients(*ingredientsFlag)
		if len(ingredients) == 0 {
			fmt.Fprintln(os.Stderr, "-ingredients contained no entries")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	recipes, err := repo.ListRecipesMissingIngredients(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list recipes:", err)
		os.Exit(1)
	}

	fmt.Printf("found %d recipes without ingredients\n", len(recipes))
	if len(recipes) == 0 {
		return
	}

	for _, recipe := range recipes {
		if *dryRun {
			fmt.Printf("would update %s (%s): %d ingredients\n", recipe.ID, recipe.Title, len(ingredients))
			continue
		}

		if err := repo.UpdateRecipeIngredients(ctx, recipe.ID, ingredients); err != nil {
			fmt.Fprintf(os.Stderr, "update %s: %v\n", recipe.ID, err)
			os.Exit(1)
		}
		fmt.Printf("updated %s (%s)\n", recipe.ID, recipe.Title)
	}

	fmt.Println("done")
}

func parseIngredients(raw string) []string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
