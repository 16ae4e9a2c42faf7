package model

import "time"

// Recipe represents a published recipe.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	// CookingTime is in minutes.
	CookingTime int       `json:"cooking_time"`
	Nutrition   string    `json:"nutrition,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasIngredients reports whether the recipe carries a non-empty
// ingredient list. Older records imported before the ingredients
// field existed may not.
func (r *Recipe) HasIngredients() bool {
	return len(r.Ingredients) > 0
}
