package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/storeatlas/store-directory/backend/internal/api/middleware"
	"github.com/storeatlas/store-directory/backend/internal/application/services"
)

// StoreHandler handles store-related HTTP requests
type StoreHandler struct {
	storeService   *services.StoreService
	catalogService *services.CatalogService
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(storeService *services.StoreService, catalogService *services.CatalogService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		catalogService: catalogService,
	}
}

type createStoreRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Address     string   `json:"address"`
	Longitude   *float64 `json:"longitude"`
	Latitude    *float64 `json:"latitude"`
	Photo       string   `json:"photo"`
}

type updateStoreRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	Address     *string  `json:"address"`
	Longitude   *float64 `json:"longitude"`
	Latitude    *float64 `json:"latitude"`
	Photo       *string  `json:"photo"`
}

// ListStores handles GET /api/stores
//
// Pages are 1-based; a page past the end of a non-empty collection answers
// with a redirect to the last page instead of an empty result.
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = parsed
	}

	result, err := h.catalogService.Page(r.Context(), page)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if result.RedirectTo > 0 {
		http.Redirect(w, r, fmt.Sprintf("/api/stores?page=%d", result.RedirectTo), http.StatusSeeOther)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetStore handles GET /api/stores/{slug}
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "store slug is required")
		return
	}

	result, err := h.storeService.GetBySlugWithReviews(r.Context(), slug)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// CreateStore handles POST /api/stores
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.storeService.Create(r.Context(), services.CreateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Address:     req.Address,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		Photo:       req.Photo,
		AuthorID:    userID,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, store)
}

// UpdateStore handles PATCH /api/stores/{id}
func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
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

	var req updateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store, err := h.storeService.Update(r.Context(), storeID, userID, services.UpdateStoreInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Address:     req.Address,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		Photo:       req.Photo,
	})
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, store)
}

// TopStores handles GET /api/stores/top
func (h *StoreHandler) TopStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.catalogService.TopStores(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}

// HeartedStores handles GET /api/stores/hearted
func (h *StoreHandler) HeartedStores(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stores, err := h.catalogService.HeartedStores(r.Context(), userID)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": stores,
		"count":  len(stores),
	})
}
