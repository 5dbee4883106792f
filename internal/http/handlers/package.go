package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/http/response"
	"github.com/brightfold/content-backend/internal/pkg/ctxutil"
	"github.com/brightfold/content-backend/internal/services"
)

type PackageHandler struct {
	lifecycle services.PackageLifecycleService
}

func NewPackageHandler(lifecycle services.PackageLifecycleService) *PackageHandler {
	return &PackageHandler{lifecycle: lifecycle}
}

type createPackageRequest struct {
	GradeBands         []string `json:"grade_bands"`
	Subjects           []string `json:"subjects"`
	Locales            []string `json:"locales"`
	SinceCutoff        string   `json:"since_cutoff"`
	URLExpirationHours int      `json:"url_expiration_hours"`
}

// POST /api/packages
func (h *PackageHandler) CreatePackage(c *gin.Context) {
	var req createPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	tc := ctxutil.GetTenantContext(c.Request.Context())
	if tc == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": gin.H{"message": "missing tenant context", "code": "unauthorized"},
		})
		return
	}

	create := services.CreatePackageRequest{
		TenantID:           tc.TenantID,
		GradeBands:         req.GradeBands,
		Subjects:           req.Subjects,
		Locales:            req.Locales,
		URLExpirationHours: req.URLExpirationHours,
	}
	if req.SinceCutoff != "" {
		cutoff, err := time.Parse(time.RFC3339, req.SinceCutoff)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
		create.SinceCutoff = &cutoff
	}

	pkg, err := h.lifecycle.CreatePackage(c.Request.Context(), create)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondAccepted(c, gin.H{"package_id": pkg.ID, "status": pkg.State})
}

// GET /api/packages/:id
func (h *PackageHandler) GetStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	status, err := h.lifecycle.GetStatus(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, status)
}

// GET /api/packages/:id/manifest
func (h *PackageHandler) GetManifest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	manifest, err := h.lifecycle.GetManifest(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, manifest)
}

// DELETE /api/packages/:id
func (h *PackageHandler) DeletePackage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}
	if err := h.lifecycle.DeletePackage(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
