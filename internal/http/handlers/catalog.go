package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/http/response"
	"github.com/brightfold/content-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

type versionTransitionRequest struct {
	Locales []string `json:"locales"`
}

// POST /api/versions/:id/publish
func (h *CatalogHandler) PublishVersion(c *gin.Context) {
	h.transition(c, h.catalog.PublishVersion)
}

// POST /api/versions/:id/retire
func (h *CatalogHandler) RetireVersion(c *gin.Context) {
	h.transition(c, h.catalog.RetireVersion)
}

func (h *CatalogHandler) transition(c *gin.Context, fn func(ctx context.Context, versionID uuid.UUID, locales []string) error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	var req versionTransitionRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
	}

	if err := fn(c.Request.Context(), id, req.Locales); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version_id": id})
}
