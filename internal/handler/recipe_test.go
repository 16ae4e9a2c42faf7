package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/recipevault/recipevault/internal/handler/dto"
	"github.com/recipevault/recipevault/internal/middleware"
	"github.com/recipevault/recipevault/internal/model"
	"github.com/recipevault/recipevault/internal/repository"
	"github.com/recipevault/recipevault/internal/service"
)

// memRecipeStore is an in-memory service.RecipeStore, newest first.
type memRecipeStore struct {
	recipes []*model.Recipe
}

func (s *memRecipeStore) CreateRecipe(_ context.Context, recipe *model.Recipe) error {
	copied := *recipe
	s.recipes = append([]*model.Recipe{&copied}, s.recipes...)
	return nil
}

func (s *memRecipeStore) GetRecipeByID(_ context.Context, id string) (*model.Recipe, error) {
	for _, recipe := range s.recipes {
		if recipe.ID == id {
			copied := *recipe
			return &copied, nil
		}
	}
	return nil, repository.ErrRecipeNotFound
}

func (s *memRecipeStore) ListRecipes(_ context.Context) ([]*model.Recipe, error) {
	out := make([]*model.Recipe, 0, len(s.recipes))
	for _, recipe := range s.recipes {
		copied := *recipe
		out = append(out, &copied)
	}
	return out, nil
}

func newRecipeHandler() (*RecipeHandler, *memRecipeStore) {
	store := &memRecipeStore{}
	return NewRecipeHandler(testLogger(), service.NewRecipeService(store, nil)), store
}

func validCreateRequest() dto.CreateRecipeRequest {
	return dto.CreateRecipeRequest{
		Title:        "Kidney Bean Curry",
		ImageURL:     "https://images.example.com/kidney-bean-curry.jpg",
		Ingredients:  []string{"kidney beans", "onion", "tomatoes", "garam masala"},
		Instructions: "Soak the beans overnight, then simmer with the spices.",
		CookingTime:  45,
		Nutrition:    "420 kcal per serving",
	}
}

func TestRecipeHandler_Create(t *testing.T) {
	h, _ := newRecipeHandler()

	body, _ := json.Marshal(validCreateRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.RecipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("response missing recipe ID")
	}
	if resp.Title != "Kidney Bean Curry" {
		t.Errorf("unexpected title: %s", resp.Title)
	}
	if len(resp.Ingredients) != 4 {
		t.Errorf("expected 4 ingredients, got %d", len(resp.Ingredients))
	}
}

func TestRecipeHandler_Create_InvalidJSON(t *testing.T) {
	h, _ := newRecipeHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestRecipeHandler_Create_BodyTooLarge(t *testing.T) {
	h, _ := newRecipeHandler()

	payload, _ := json.Marshal(validCreateRequest())
	wrapped := middleware.MaxBodySize(16)(http.HandlerFunc(h.Create))

	// An unknown-length body gets past the middleware's Content-Length
	// check; only the wrapped reader can stop it mid-decode.
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", io.MultiReader(bytes.NewReader(payload)))
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("expected code PAYLOAD_TOO_LARGE, got %s", resp.Code)
	}
}

func TestRecipeHandler_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*dto.CreateRecipeRequest)
		wantCode string
	}{
		{
			name:     "missing title",
			mutate:   func(r *dto.CreateRecipeRequest) { r.Title = "" },
			wantCode: "INVALID_TITLE",
		},
		{
			name:     "missing image URL",
			mutate:   func(r *dto.CreateRecipeRequest) { r.ImageURL = "" },
			wantCode: "INVALID_IMAGE_URL",
		},
		{
			name:     "missing instructions",
			mutate:   func(r *dto.CreateRecipeRequest) { r.Instructions = "" },
			wantCode: "MISSING_INSTRUCTIONS",
		},
		{
			name:     "zero cooking time",
			mutate:   func(r *dto.CreateRecipeRequest) { r.CookingTime = 0 },
			wantCode: "INVALID_COOKING_TIME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newRecipeHandler()

			payload := validCreateRequest()
			tt.mutate(&payload)
			body, _ := json.Marshal(payload)

			req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}

			var resp dto.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestRecipeHandler_List(t *testing.T) {
	h, _ := newRecipeHandler()

	titles := []string{"Dal Tadka", "Palak Paneer", "Chana Masala"}
	for _, title := range titles {
		payload := validCreateRequest()
		payload.Title = title
		body, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.Create(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %q: expected status 201, got %d", title, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	rec := httptest.NewRecorder()

	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp []*dto.RecipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != len(titles) {
		t.Fatalf("expected %d recipes, got %d", len(titles), len(resp))
	}
	// Newest first.
	if resp[0].Title != "Chana Masala" {
		t.Errorf("expected newest recipe first, got %s", resp[0].Title)
	}
}

func TestRecipeHandler_GetByID(t *testing.T) {
	h, store := newRecipeHandler()

	body, _ := json.Marshal(validCreateRequest())
	req := httptest.NewRequest(http.MethodPost, "/api/recipes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	id := store.recipes[0].ID

	req = httptest.NewRequest(http.MethodGet, "/api/recipes/"+id, nil)
	req = withURLParam(req, "id", id)
	rec = httptest.NewRecorder()

	h.GetByID(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.RecipeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != id {
		t.Errorf("expected recipe %s, got %s", id, resp.ID)
	}
}

func TestRecipeHandler_GetByID_NotFound(t *testing.T) {
	h, _ := newRecipeHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/missing", nil)
	req = withURLParam(req, "id", "missing")
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "RECIPE_NOT_FOUND" {
		t.Errorf("expected code RECIPE_NOT_FOUND, got %s", resp.Code)
	}
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
