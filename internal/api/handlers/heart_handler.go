package handlers

import (
	"net/http"

	"github.com/storeatlas/store-directory/backend/internal/api/middleware"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
)

// HeartHandler handles heart toggle HTTP requests
type HeartHandler struct {
	heartService *services.HeartService
}

// NewHeartHandler creates a new heart handler
func NewHeartHandler(heartService *services.HeartService) *HeartHandler {
	return &HeartHandler{heartService: heartService}
}

// ToggleHeart handles POST /api/stores/{id}/heart
func (h *HeartHandler) ToggleHeart(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	storeID := r.PathValue("id")
	if storeID == "" {
		respondWithError(w, http.StatusBadRequest, "store ID is required")
		return
	}

	user, err := h.heartService.Toggle(r.Context(), userID, storeID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"hearts":  user.Hearts,
		"hearted": user.HasHearted(storeID),
	})
}
