package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightfold/content-backend/internal/data/repos/catalog"
	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/http/response"
	"github.com/brightfold/content-backend/internal/services"
)

type ContentHandler struct {
	svc services.ContentResolutionService
}

func NewContentHandler(svc services.ContentResolutionService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// GET /api/content/:slug
func (h *ContentHandler) Resolve(c *gin.Context) {
	slug := c.Param("slug")
	locale := c.Query("locale")
	profile := profileFromQuery(c)
	opts := services.ResolveOptions{
		IncludeDrafts: c.Query("include_drafts") == "true",
	}

	resolved, err := h.svc.Resolve(c.Request.Context(), slug, locale, profile, opts)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, resolved)
}

// GET /api/content
func (h *ContentHandler) ResolveList(c *gin.Context) {
	filter := catalog.ListFilter{
		Subject:   c.Query("subject"),
		GradeBand: c.Query("grade_band"),
		SkillID:   c.Query("skill_id"),
	}
	locale := c.Query("locale")
	profile := profileFromQuery(c)
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	list, err := h.svc.ResolveList(c.Request.Context(), filter, locale, profile, page, pageSize)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, list)
}

func intQuery(c *gin.Context, key string, defaultVal int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}

// profileFromQuery builds an accessibility profile from query flags.
// Returns nil when no accessibility parameter was supplied at all, which
// downstream scoring treats differently from an empty profile.
func profileFromQuery(c *gin.Context) *types.AccessibilityProfile {
	var profile types.AccessibilityProfile
	supplied := false

	flag := func(key string, dst *bool) {
		if c.Query(key) == "true" {
			*dst = true
			supplied = true
		}
	}
	flag("needs_dyslexia_friendly_font", &profile.NeedsDyslexiaFriendlyFont)
	flag("needs_reduced_stimuli", &profile.NeedsReducedStimuli)
	flag("needs_screen_reader_structured", &profile.NeedsScreenReaderStructured)
	flag("needs_high_contrast", &profile.NeedsHighContrast)
	flag("needs_text_to_speech", &profile.NeedsTextToSpeech)
	if raw := c.Query("max_cognitive_load"); raw != "" {
		load := types.CognitiveLoad(raw)
		profile.MaxCognitiveLoad = &load
		supplied = true
	}

	if !supplied {
		return nil
	}
	return &profile
}
