package handlers

import (
	"net/http"

	"github.com/storeatlas/store-directory/backend/internal/application/services"
)

// TagHandler handles tag aggregate HTTP requests
type TagHandler struct {
	catalogService *services.CatalogService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(catalogService *services.CatalogService) *TagHandler {
	return &TagHandler{catalogService: catalogService}
}

// ListTags handles GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalogService.TagCounts(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tags":  tags,
		"count": len(tags),
	})
}

// StoresByTag handles GET /api/tags/{tag}
func (h *TagHandler) StoresByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")

	stores, err := h.catalogService.StoresByTag(r.Context(), tag)
	if err != nil {
		writeAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tag":    tag,
		"stores": stores,
		"count":  len(stores),
	})
}
