package handlers

import (
	"net/http"
	"strconv"

	"github.com/storeatlas/store-directory/backend/internal/application/services"
)

// SearchHandler handles store search HTTP requests
type SearchHandler struct {
	searchService *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// SearchStores handles GET /api/stores/search?q=
func (h *SearchHandler) SearchStores(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	hits, err := h.searchService.Text(r.Context(), query)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": hits,
		"count":  len(hits),
	})
}

// NearbyStores handles GET /api/stores/near?lng=&lat=
func (h *SearchHandler) NearbyStores(w http.ResponseWriter, r *http.Request) {
	lat, err := parseCoordinate(r.URL.Query().Get("lat"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat must be a valid number")
		return
	}
	lng, err := parseCoordinate(r.URL.Query().Get("lng"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng must be a valid number")
		return
	}

	hits, err := h.searchService.Nearby(r.Context(), lat, lng)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"stores": hits,
		"count":  len(hits),
	})
}

func parseCoordinate(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}
