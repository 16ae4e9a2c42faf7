package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipevault/recipevault/internal/handler/dto"
	"github.com/recipevault/recipevault/internal/service"
)

// RecipeHandler handles recipe endpoints.
type RecipeHandler struct {
	logger  *slog.Logger
	service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(logger *slog.Logger, svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		logger:  logger,
		service: svc,
	}
}

// Create publishes a new recipe. Restricted to the admin.
//
// POST /api/recipes
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A chunked body can pass the middleware's Content-Length
		// check and only trip the byte limit while decoding.
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	recipe, err := h.service.CreateRecipe(ctx, service.CreateRecipeInput{
		Title:        req.Title,
		ImageURL:     req.ImageURL,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  req.CookingTime,
		Nutrition:    req.Nutrition,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("recipe published",
		slog.String("recipe_id", recipe.ID),
		slog.String("title", recipe.Title),
	)

	writeJSON(w, http.StatusCreated, dto.ToRecipeResponse(recipe))
}

// List returns all recipes, newest first.
//
// GET /api/recipes
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.ListRecipes(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	responses := make([]*dto.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, dto.ToRecipeResponse(recipe))
	}

	writeJSON(w, http.StatusOK, responses)
}

// GetByID returns a single recipe.
//
// GET /api/recipes/{id}
func (h *RecipeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "MISSING_ID", "Recipe ID is required")
		return
	}

	recipe, err := h.service.GetRecipe(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToRecipeResponse(recipe))
}

// handleServiceError maps service errors to HTTP responses.
func (h *RecipeHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		writeError(w, http.StatusNotFound, "RECIPE_NOT_FOUND", "Recipe not found")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "INVALID_TITLE", "Title is required and must be at most 200 characters")
	case errors.Is(err, service.ErrInvalidImageURL):
		writeError(w, http.StatusBadRequest, "INVALID_IMAGE_URL", "Image URL must be a valid http or https URL")
	case errors.Is(err, service.ErrInstructionsMissing):
		writeError(w, http.StatusBadRequest, "MISSING_INSTRUCTIONS", "Instructions are required")
	case errors.Is(err, service.ErrInvalidCookingTime):
		writeError(w, http.StatusBadRequest, "INVALID_COOKING_TIME", "Cooking time must be a positive number of minutes")
	default:
		h.logger.Error("recipe operation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
