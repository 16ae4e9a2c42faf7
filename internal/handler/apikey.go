package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/recipevault/recipevault/internal/auth"
	"github.com/recipevault/recipevault/internal/handler/dto"
	"github.com/recipevault/recipevault/internal/service"
)

// APIKeyHandler handles API key endpoints.
type APIKeyHandler struct {
	logger  *slog.Logger
	service *service.APIKeyService
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(logger *slog.Logger, svc *service.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{
		logger:  logger,
		service: svc,
	}
}

// Get returns the caller's API key, issuing one on first request.
// Calling it again always returns the same key.
//
// GET /api/apikey
func (h *APIKeyHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	key, err := h.service.GetOrIssueKey(ctx, identity.SubjectID)
	if err != nil {
		h.writeServiceError(w, identity.SubjectID, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.APIKeyResponse{APIKey: key})
}

// Regenerate replaces the caller's API key with a fresh one. The old
// key stops working immediately.
//
// POST /api/apikey/regenerate
func (h *APIKeyHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	identity := auth.IdentityFromContext(ctx)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	key, err := h.service.RegenerateKey(ctx, identity.SubjectID)
	if err != nil {
		h.writeServiceError(w, identity.SubjectID, err)
		return
	}

	h.logger.Info("API key regenerated",
		slog.String("user_id", identity.SubjectID),
	)

	writeJSON(w, http.StatusOK, dto.APIKeyResponse{APIKey: key})
}

func (h *APIKeyHandler) writeServiceError(w http.ResponseWriter, userID string, err error) {
	if errors.Is(err, service.ErrKeyGenerationExhausted) {
		h.logger.Error("API key generation exhausted retries",
			slog.String("user_id", userID),
		)
	} else {
		h.logger.Error("API key operation failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
}
