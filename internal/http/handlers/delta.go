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

type DeltaHandler struct {
	tracker services.DeltaTracker
}

func NewDeltaHandler(tracker services.DeltaTracker) *DeltaHandler {
	return &DeltaHandler{tracker: tracker}
}

// GET /api/delta
func (h *DeltaHandler) GetDelta(c *gin.Context) {
	since := time.Time{}
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
		since = parsed
	}

	tenantID := uuid.Nil
	if tc := ctxutil.GetTenantContext(c.Request.Context()); tc != nil {
		tenantID = tc.TenantID
	}

	filter := services.DeltaFilter{
		Subjects:   c.QueryArray("subject"),
		GradeBands: c.QueryArray("grade_band"),
		Locales:    c.QueryArray("locale"),
	}

	page, err := h.tracker.GetDelta(
		c.Request.Context(),
		tenantID,
		filter,
		since,
		c.Query("cursor"),
		intQuery(c, "limit", 0),
	)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, page)
}
