package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/recipevault/recipevault/internal/cache"
	"github.com/recipevault/recipevault/internal/model"
	"github.com/recipevault/recipevault/internal/repository"
)

// Service errors.
var (
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidImageURL     = errors.New("invalid image URL")
	ErrInstructionsMissing = errors.New("instructions are required")
	ErrInvalidCookingTime  = errors.New("cooking time must be a positive number of minutes")
)

const maxTitleLength = 200

// RecipeStore is the persistence surface the recipe service needs.
// *repository.Repository satisfies it.
type RecipeStore interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*model.Recipe, error)
	ListRecipes(ctx context.Context) ([]*model.Recipe, error)
}

// RecipeCache is the cache surface the recipe service uses. Cache
// failures degrade to database reads and never fail a request.
// *cache.Cache satisfies it; a nil cache disables caching.
type RecipeCache interface {
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	SetRecipe(ctx context.Context, recipe *model.Recipe) error
	IsNegativelyCached(ctx context.Context, id string) (bool, error)
	SetNegativeCache(ctx context.Context, id string) error
	GetRecipeList(ctx context.Context) ([]*model.Recipe, error)
	SetRecipeList(ctx context.Context, recipes []*model.Recipe) error
	InvalidateRecipeList(ctx context.Context) error
}

// RecipeService handles recipe business logic.
type RecipeService struct {
	store RecipeStore
	cache RecipeCache
}

// NewRecipeService creates a new RecipeService. cache may be nil.
func NewRecipeService(store RecipeStore, cache RecipeCache) *RecipeService {
	return &RecipeService{store: store, cache: cache}
}

// CreateRecipeInput defines input for creating a recipe.
type CreateRecipeInput struct {
	Title        string
	ImageURL     string
	Ingredients  []string
	Instructions string
	CookingTime  int
	Nutrition    string
}

// CreateRecipe validates and persists a new recipe.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*model.Recipe, error) {
	if err := validateRecipeInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recipe := &model.Recipe{
		ID:           ulid.Make().String(),
		Title:        input.Title,
		ImageURL:     input.ImageURL,
		Ingredients:  input.Ingredients,
		Instructions: input.Instructions,
		CookingTime:  input.CookingTime,
		Nutrition:    input.Nutrition,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	if s.cache != nil {
		// The listing is stale now; eventual consistency is acceptable.
		_ = s.cache.InvalidateRecipeList(ctx)
	}

	return recipe, nil
}

// GetRecipe retrieves a recipe by ID, cache-first.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRecipe(ctx, id); err == nil {
			return cached, nil
		}

		if isNegative, _ := s.cache.IsNegativelyCached(ctx, id); isNegative {
			return nil, ErrRecipeNotFound
		}
	}

	recipe, err := s.store.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecipeNotFound) {
			if s.cache != nil {
				_ = s.cache.SetNegativeCache(ctx, id)
			}
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRecipe(ctx, recipe)
	}

	return recipe, nil
}

// ListRecipes retrieves all recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*model.Recipe, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetRecipeList(ctx); err == nil {
			return cached, nil
		}
	}

	recipes, err := s.store.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetRecipeList(ctx, recipes)
	}

	return recipes, nil
}

// validateRecipeInput checks required fields and value constraints.
func validateRecipeInput(input CreateRecipeInput) error {
	if input.Title == "" || len(input.Title) > maxTitleLength {
		return ErrTitleRequired
	}

	if err := validateImageURL(input.ImageURL); err != nil {
		return err
	}

	if input.Instructions == "" {
		return ErrInstructionsMissing
	}

	if input.CookingTime <= 0 {
		return ErrInvalidCookingTime
	}

	return nil
}

// validateImageURL requires an absolute http(s) URL.
func validateImageURL(imageURL string) error {
	if imageURL == "" {
		return ErrInvalidImageURL
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ErrInvalidImageURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ErrInvalidImageURL
	}

	if parsed.Host == "" {
		return ErrInvalidImageURL
	}

	return nil
}

// Compile-time checks that the repository and cache satisfy the
// service-side interfaces.
var (
	_ RecipeStore = (*repository.Repository)(nil)
	_ KeyStore    = (*repository.Repository)(nil)
	_ RecipeCache = (*cache.Cache)(nil)
)
