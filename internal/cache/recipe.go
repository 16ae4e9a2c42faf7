package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recipevault/recipevault/internal/model"
)

// Cache key prefixes and TTLs for recipe data.
const (
	recipeKeyPrefix   = "recipe:"
	recipeListKey     = "recipes:all"
	negCacheKeySuffix = ":neg"

	// DefaultRecipeTTL is the TTL for cached recipe records.
	DefaultRecipeTTL = 1 * time.Hour

	// RecipeListTTL keeps the full listing fresh without hammering the
	// database from the browsing front end.
	RecipeListTTL = 1 * time.Minute

	// NegativeCacheTTL is the TTL for negative cache entries.
	NegativeCacheTTL = 5 * time.Minute
)

// GetRecipe retrieves a recipe from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	data, err := c.client.Get(ctx, recipeKeyPrefix+id).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var recipe model.Recipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		// Corrupted entry - treat as miss
		return nil, ErrCacheMiss
	}

	return &recipe, nil
}

// SetRecipe stores a recipe in cache and clears any negative entry.
func (c *Cache) SetRecipe(ctx context.Context, recipe *model.Recipe) error {
	data, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("marshal recipe: %w", err)
	}

	key := recipeKeyPrefix + recipe.ID

	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, DefaultRecipeTTL)
	pipe.Del(ctx, key+negCacheKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache recipe: %w", err)
	}

	return nil
}

// IsNegativelyCached checks whether an ID is known not to exist.
func (c *Cache) IsNegativelyCached(ctx context.Context, id string) (bool, error) {
	exists, err := c.client.Exists(ctx, recipeKeyPrefix+id+negCacheKeySuffix).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}
	return exists > 0, nil
}

// SetNegativeCache marks a recipe ID as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, id string) error {
	err := c.client.SetEx(ctx, recipeKeyPrefix+id+negCacheKeySuffix, "", NegativeCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}
	return nil
}

// GetRecipeList retrieves the cached full recipe listing.
// Returns ErrCacheMiss if not cached.
func (c *Cache) GetRecipeList(ctx context.Context) ([]*model.Recipe, error) {
	data, err := c.client.Get(ctx, recipeListKey).Bytes()
	if err != nil {
		return nil, ErrCacheMiss
	}

	var recipes []*model.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, ErrCacheMiss
	}

	return recipes, nil
}

// SetRecipeList caches the full recipe listing.
func (c *Cache) SetRecipeList(ctx context.Context, recipes []*model.Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("marshal recipe list: %w", err)
	}

	if err := c.client.Set(ctx, recipeListKey, data, RecipeListTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache recipe list: %w", err)
	}

	return nil
}

// InvalidateRecipeList drops the cached listing after a write.
func (c *Cache) InvalidateRecipeList(ctx context.Context) error {
	return c.client.Del(ctx, recipeListKey).Err()
}
