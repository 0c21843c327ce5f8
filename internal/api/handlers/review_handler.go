package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/storeatlas/store-directory/backend/internal/api/middleware"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
)

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

type addReviewRequest struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// AddReview handles POST /api/stores/{id}/reviews
func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
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

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewService.Add(r.Context(), services.AddReviewInput{
		StoreID:  storeID,
		AuthorID: userID,
		Text:     req.Text,
		Rating:   req.Rating,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// ListReviews handles GET /api/stores/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("id")
	if storeID == "" {
		respondWithError(w, http.StatusBadRequest, "store ID is required")
		return
	}

	reviews, err := h.reviewService.ListByStore(r.Context(), storeID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}
