package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/http/response"
	"github.com/brightfold/content-backend/internal/pkg/ctxutil"
	"github.com/brightfold/content-backend/internal/services"
)

type PlanHandler struct {
	selector services.ContentSelector
}

func NewPlanHandler(selector services.ContentSelector) *PlanHandler {
	return &PlanHandler{selector: selector}
}

type selectPlanRequest struct {
	LearnerID            string                      `json:"learner_id"`
	Subject              string                      `json:"subject" binding:"required"`
	GradeBand            string                      `json:"grade_band" binding:"required"`
	TargetSkills         []string                    `json:"target_skills" binding:"required"`
	MinutesAvailable     int                         `json:"minutes_available" binding:"required"`
	DifficultyAdjustment string                      `json:"difficulty_adjustment"`
	AccessibilityProfile *types.AccessibilityProfile `json:"accessibility_profile"`
	PreferredContentType string                      `json:"preferred_content_type"`
	ExcludeIDs           []string                    `json:"exclude_ids"`
}

type selectPlanResponse struct {
	*services.PlanResult
	ProcessingTimeMS int64 `json:"processing_time_ms"`
}

// POST /api/plans/select
func (h *PlanHandler) SelectForPlan(c *gin.Context) {
	var req selectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
		return
	}

	planReq := services.PlanRequest{
		Subject:              req.Subject,
		GradeBand:            req.GradeBand,
		TargetSkills:         req.TargetSkills,
		MinutesAvailable:     req.MinutesAvailable,
		DifficultyAdjustment: req.DifficultyAdjustment,
		AccessibilityProfile: req.AccessibilityProfile,
		PreferredContentType: req.PreferredContentType,
	}
	if tc := ctxutil.GetTenantContext(c.Request.Context()); tc != nil {
		planReq.TenantID = tc.TenantID
		planReq.LearnerID = tc.LearnerID
	}
	if req.LearnerID != "" {
		if id, err := uuid.Parse(req.LearnerID); err == nil {
			planReq.LearnerID = id
		}
	}
	for _, raw := range req.ExcludeIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_argument", err)
			return
		}
		planReq.ExcludeIDs = append(planReq.ExcludeIDs, id)
	}

	start := time.Now()
	result, err := h.selector.SelectForPlan(c.Request.Context(), planReq)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, selectPlanResponse{
		PlanResult:       result,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	})
}
