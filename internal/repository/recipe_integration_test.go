//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/recipevault/recipevault/internal/testutil"
)

func TestIntegrationRecipeRepository_CreateAndGet(t *testing.T) {
	ctx, repo := newRecipeTestEnv(t)

	recipe := testutil.NewTestRecipe(t, "Kidney Bean Curry")
	recipe.Ingredients = []string{"kidney beans", "onion", "garam masala"}
	recipe.Nutrition = "420 kcal per serving"

	if err := repo.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	retrieved, err := repo.GetRecipeByID(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipeByID failed: %v", err)
	}

	if retrieved.Title != recipe.Title {
		t.Errorf("Title mismatch: got %q, want %q", retrieved.Title, recipe.Title)
	}
	if len(retrieved.Ingredients) != 3 {
		t.Errorf("expected 3 ingredients, got %d", len(retrieved.Ingredients))
	}
	if retrieved.Nutrition != recipe.Nutrition {
		t.Errorf("Nutrition mismatch: got %q, want %q", retrieved.Nutrition, recipe.Nutrition)
	}
}

func TestIntegrationRecipeRepository_GetByID_NotFound(t *testing.T) {
	ctx, repo := newRecipeTestEnv(t)

	_, err := repo.GetRecipeByID(ctx, "nonexistent-recipe")
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got: %v", err)
	}
}

func TestIntegrationRecipeRepository_ListNewestFirst(t *testing.T) {
	ctx, repo := newRecipeTestEnv(t)

	titles := []string{"Dal Tadka", "Palak Paneer", "Chana Masala"}
	for _, title := range titles {
		recipe := testutil.NewTestRecipe(t, title)
		if err := repo.CreateRecipe(ctx, recipe); err != nil {
			t.Fatalf("CreateRecipe %q failed: %v", title, err)
		}
	}

	recipes, err := repo.ListRecipes(ctx)
	if err != nil {
		t.Fatalf("ListRecipes failed: %v", err)
	}

	if len(recipes) != len(titles) {
		t.Fatalf("expected %d recipes, got %d", len(titles), len(recipes))
	}
	if recipes[0].Title != "Chana Masala" {
		t.Errorf("expected newest recipe first, got %q", recipes[0].Title)
	}
}

func TestIntegrationRecipeRepository_IngredientBackfill(t *testing.T) {
	ctx, repo := newRecipeTestEnv(t)

	missing := testutil.NewTestRecipe(t, "Legacy Recipe")
	missing.Ingredients = nil
	if err := repo.CreateRecipe(ctx, missing); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	complete := testutil.NewTestRecipe(t, "Complete Recipe")
	if err := repo.CreateRecipe(ctx, complete); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}

	found, err := repo.ListRecipesMissingIngredients(ctx)
	if err != nil {
		t.Fatalf("ListRecipesMissingIngredients failed: %v", err)
	}
	if len(found) != 1 || found[0].ID != missing.ID {
		t.Fatalf("expected only the legacy recipe, got %d recipes", len(found))
	}

	if err := repo.UpdateRecipeIngredients(ctx, missing.ID, []string{"lentils", "cumin"}); err != nil {
		t.Fatalf("UpdateRecipeIngredients failed: %v", err)
	}

	updated, err := repo.GetRecipeByID(ctx, missing.ID)
	if err != nil {
		t.Fatalf("GetRecipeByID failed: %v", err)
	}
	if len(updated.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients after backfill, got %d", len(updated.Ingredients))
	}

	remaining, err := repo.ListRecipesMissingIngredients(ctx)
	if err != nil {
		t.Fatalf("ListRecipesMissingIngredients failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("expected no recipes missing ingredients, got %d", len(remaining))
	}
}

func TestIntegrationRecipeRepository_UpdateIngredients_NotFound(t *testing.T) {
	ctx, repo := newRecipeTestEnv(t)

	err := repo.UpdateRecipeIngredients(ctx, "nonexistent-recipe", []string{"salt"})
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Errorf("expected ErrRecipeNotFound, got: %v", err)
	}
}

func newRecipeTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetRecipesSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset recipes schema: %v", err)
	}

	return ctx, repo
}
