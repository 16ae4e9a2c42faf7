package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/recipevault/recipevault/internal/model"
)

// ErrRecipeNotFound is returned when a recipe lookup matches nothing.
var ErrRecipeNotFound = errors.New("recipe not found")

// CreateRecipe inserts a new recipe into the database.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (id, title, image_url, ingredients, instructions, cooking_time, nutrition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Title,
		recipe.ImageURL,
		pq.Array(recipe.Ingredients),
		recipe.Instructions,
		recipe.CookingTime,
		recipe.Nutrition,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// GetRecipeByID retrieves a recipe by its ID.
func (r *Repository) GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error) {
	query := `
		SELECT id, title, image_url, ingredients, instructions, cooking_time, nutrition, created_at, updated_at
		FROM recipes
		WHERE id = $1
	`

	recipe, err := scanRecipe(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	return recipe, nil
}

// ListRecipes retrieves all recipes, newest first.
func (r *Repository) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	query := `
		SELECT id, title, image_url, ingredients, instructions, cooking_time, nutrition, created_at, updated_at
		FROM recipes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipeFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// ListRecipesMissingIngredients retrieves recipes whose ingredient list
// is absent or empty. Used by the backfill maintenance script.
func (r *Repository) ListRecipesMissingIngredients(ctx context.Context) ([]*model.Recipe, error) {
	query := `
		SELECT id, title, image_url, ingredients, instructions, cooking_time, nutrition, created_at, updated_at
		FROM recipes
		WHERE ingredients IS NULL OR cardinality(ingredients) = 0
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes missing ingredients: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe, err := scanRecipeFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// UpdateRecipeIngredients replaces a recipe's ingredient list.
func (r *Repository) UpdateRecipeIngredients(ctx context.Context, id string, ingredients []string) error {
	query := `
		UPDATE recipes
		SET ingredients = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, pq.Array(ingredients), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update recipe ingredients: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// scanRecipe scans a single row into a Recipe model.
func scanRecipe(row pgx.Row) (*model.Recipe, error) {
	var recipe model.Recipe
	var ingredients []string

	err := row.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.ImageURL,
		pq.Array(&ingredients),
		&recipe.Instructions,
		&recipe.CookingTime,
		&recipe.Nutrition,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Ingredients = ingredients
	return &recipe, nil
}

// scanRecipeFromRows scans a row from pgx.Rows into a Recipe model.
func scanRecipeFromRows(rows pgx.Rows) (*model.Recipe, error) {
	var recipe model.Recipe
	var ingredients []string

	err := rows.Scan(
		&recipe.ID,
		&recipe.Title,
		&recipe.ImageURL,
		pq.Array(&ingredients),
		&recipe.Instructions,
		&recipe.CookingTime,
		&recipe.Nutrition,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	recipe.Ingredients = ingredients
	return &recipe, nil
}
