// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/recipevault/recipevault/internal/model"
)

// CreateRecipeRequest represents the request body for publishing a recipe.
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	ImageURL     string   `json:"image_url"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions string   `json:"instructions"`
	CookingTime  int      `json:"cooking_time"`
	Nutrition    string   `json:"nutrition,omitempty"`
}

// RecipeResponse represents a recipe in API responses.
type RecipeResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	CookingTime  int       `json:"cooking_time"`
	Nutrition    string    `json:"nutrition,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// APIKeyResponse carries a user's API key. The field name matches
// what existing clients of the service expect.
type APIKeyResponse struct {
	APIKey string `json:"apiKey"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToRecipeResponse converts a Recipe model to its response DTO.
func ToRecipeResponse(recipe *model.Recipe) *RecipeResponse {
	ingredients := recipe.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &RecipeResponse{
		ID:           recipe.ID,
		Title:        recipe.Title,
		ImageURL:     recipe.ImageURL,
		Ingredients:  ingredients,
		Instructions: recipe.Instructions,
		CookingTime:  recipe.CookingTime,
		Nutrition:    recipe.Nutrition,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}
