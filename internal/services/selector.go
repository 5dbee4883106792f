package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// PlanRequest asks for a bounded, ordered subset of published content that
// covers the target skills inside the time budget.
type PlanRequest struct {
	TenantID  uuid.UUID
	LearnerID uuid.UUID

	Subject   string
	GradeBand string

	TargetSkills     []string
	MinutesAvailable int

	DifficultyAdjustment string
	AccessibilityProfile *types.AccessibilityProfile
	PreferredContentType string
	ExcludeIDs           []uuid.UUID
}

// SelectedContent is one chosen plan item with its per-query score.
type SelectedContent struct {
	ObjectID         uuid.UUID `json:"object_id"`
	VersionID        uuid.UUID `json:"version_id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	ContentType      string    `json:"content_type,omitempty"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Score            float64   `json:"score"`
	MatchedSkills    []string  `json:"matched_skills,omitempty"`
	Reason           string    `json:"reason,omitempty"`
}

// PlanResult is the ordered selection plus coverage accounting and notes.
type PlanResult struct {
	Items                []SelectedContent `json:"items"`
	TotalDurationMinutes int               `json:"total_duration_minutes"`
	SkillsCovered        []string          `json:"skills_covered"`
	Notes                []string          `json:"notes,omitempty"`
}

type ContentSelector interface {
	SelectForPlan(ctx context.Context, req PlanRequest) (*PlanResult, error)
}

type contentSelector struct {
	search SearchService
	recent RecentActivityTracker
	cfg    SelectorConfig
	log    *logger.Logger
}

func NewContentSelector(search SearchService, recent RecentActivityTracker, cfg SelectorConfig, baseLog *logger.Logger) ContentSelector {
	return &contentSelector{
		search: search,
		recent: recent,
		cfg:    cfg,
		log:    baseLog.With("service", "ContentSelector"),
	}
}

// scoredCandidate exists only for the duration of one selection call.
type scoredCandidate struct {
	SearchCandidate
	minutes       int
	score         float64
	matchedSkills []string
	reasons       []string
}

func (s *contentSelector) SelectForPlan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	if req.MinutesAvailable <= 0 {
		return &PlanResult{Items: []SelectedContent{}, SkillsCovered: []string{}, Notes: []string{"no time budget provided"}}, nil
	}

	candidates, err := s.search.FindCandidates(ctx, req.TenantID, req.Subject, req.GradeBand, req.TargetSkills, s.cfg.CandidateLimit)
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	excluded, err := s.exclusionSet(ctx, req)
	if err != nil {
		return nil, err
	}

	targets := make(map[string]bool, len(req.TargetSkills))
	for _, skill := range req.TargetSkills {
		targets[skill] = true
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	filteredRecent := 0
	for _, cand := range candidates {
		if reason, ok := excluded[cand.ObjectID]; ok {
			if reason == exclusionRecent {
				filteredRecent++
			}
			continue
		}
		minutes := s.cfg.Durations.Minutes(cand.ContentType, cand.EstimatedMinutes)
		// Anything longer than the whole budget can never fit.
		if minutes > req.MinutesAvailable {
			continue
		}
		scored = append(scored, s.score(req, cand, minutes, targets))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	result := s.fill(req, scored, targets)

	if filteredRecent > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("%d items filtered as recently used", filteredRecent))
	}
	return result, nil
}

type exclusionReason int

const (
	exclusionExplicit exclusionReason = iota
	exclusionRecent
)

func (s *contentSelector) exclusionSet(ctx context.Context, req PlanRequest) (map[uuid.UUID]exclusionReason, error) {
	excluded := make(map[uuid.UUID]exclusionReason, len(req.ExcludeIDs))
	for _, id := range req.ExcludeIDs {
		excluded[id] = exclusionExplicit
	}

	if s.recent == nil || req.LearnerID == uuid.Nil {
		return excluded, nil
	}
	window := time.Duration(s.cfg.LookbackDays) * 24 * time.Hour
	recent, err := s.recent.RecentIDs(ctx, req.LearnerID, window)
	if err != nil {
		// Degrade to explicit excludes only; a tracker outage must not
		// fail planning.
		s.log.Warn("recent activity lookup failed", "learner_id", req.LearnerID, "error", err)
		return excluded, nil
	}
	for id := range recent {
		if _, ok := excluded[id]; !ok {
			excluded[id] = exclusionRecent
		}
	}
	return excluded, nil
}

func (s *contentSelector) score(req PlanRequest, cand SearchCandidate, minutes int, targets map[string]bool) scoredCandidate {
	w := s.cfg.Weights
	out := scoredCandidate{SearchCandidate: cand, minutes: minutes}

	for _, skill := range cand.SkillIDs {
		if targets[skill] {
			out.matchedSkills = append(out.matchedSkills, skill)
		}
	}

	if len(out.matchedSkills) > 0 {
		if targets[cand.PrimarySkill()] {
			out.score += w.PrimarySkill
			out.reasons = append(out.reasons, "directly targets a requested skill")
		} else {
			out.score += w.SecondarySkill
			out.reasons = append(out.reasons, "practices a requested skill")
		}
		// Each additional target skill beyond the first widens coverage.
		out.score += w.CoverageBonus * float64(len(out.matchedSkills)-1)
		if len(out.matchedSkills) > 1 {
			out.reasons = append(out.reasons, "covers multiple requested skills")
		}
	}

	if req.DifficultyAdjustment != "" && strings.EqualFold(req.DifficultyAdjustment, cand.Difficulty) {
		out.score += w.DifficultyMatch
		out.reasons = append(out.reasons, "matches the requested difficulty")
	}

	if req.AccessibilityProfile != nil {
		_, satisfied := MatchAccessibility(req.AccessibilityProfile, cand.Accessibility)
		if satisfied > 0 {
			out.score += w.AccessibilityNeed * float64(satisfied)
			out.reasons = append(out.reasons, "supports stated accessibility needs")
		}
	}

	// A single item in the 30-50% band of the budget is substantial
	// without crowding out the rest of the plan.
	share := float64(minutes) / float64(req.MinutesAvailable)
	if share >= s.cfg.DurationFitLow && share <= s.cfg.DurationFitHigh {
		out.score += w.DurationFit
	}

	if req.PreferredContentType != "" && strings.EqualFold(req.PreferredContentType, cand.ContentType) {
		out.score += w.ContentTypeMatch
		out.reasons = append(out.reasons, "matches the preferred format")
	}

	return out
}

func (s *contentSelector) fill(req PlanRequest, scored []scoredCandidate, targets map[string]bool) *PlanResult {
	covered := make(map[string]bool, len(targets))
	items := make([]SelectedContent, 0, s.cfg.MaxPlanItems)
	used := 0
	earlyStopMinutes := int(float64(req.MinutesAvailable) * s.cfg.EarlyStopBudgetFraction)

	for _, cand := range scored {
		if len(items) >= s.cfg.MaxPlanItems {
			break
		}
		if cand.minutes > req.MinutesAvailable-used {
			continue
		}
		for _, skill := range cand.matchedSkills {
			covered[skill] = true
		}
		items = append(items, SelectedContent{
			ObjectID:         cand.ObjectID,
			VersionID:        cand.VersionID,
			Slug:             cand.Slug,
			Title:            cand.Title,
			ContentType:      cand.ContentType,
			EstimatedMinutes: cand.minutes,
			Score:            cand.score,
			MatchedSkills:    cand.matchedSkills,
			Reason:           reasonText(cand.reasons),
		})
		used += cand.minutes

		// Once every target skill is covered and most of the budget is
		// spent, more items are low-value filler.
		if len(covered) == len(targets) && used >= earlyStopMinutes {
			break
		}
	}

	result := &PlanResult{
		Items:                items,
		TotalDurationMinutes: used,
		SkillsCovered:        make([]string, 0, len(covered)),
	}
	for _, skill := range req.TargetSkills {
		if covered[skill] {
			result.SkillsCovered = append(result.SkillsCovered, skill)
		}
	}

	uncovered := make([]string, 0)
	for _, skill := range req.TargetSkills {
		if !covered[skill] {
			uncovered = append(uncovered, skill)
		}
	}
	if len(uncovered) > 0 {
		result.Notes = append(result.Notes, fmt.Sprintf("no content found for skills: %s", strings.Join(uncovered, ", ")))
	}
	if float64(used) < float64(req.MinutesAvailable)*s.cfg.LowUtilizationFraction {
		result.Notes = append(result.Notes, fmt.Sprintf("selection fills only %d of %d available minutes", used, req.MinutesAvailable))
	}
	return result
}

func reasonText(reasons []string) string {
	if len(reasons) == 0 {
		return "recommended for this plan"
	}
	return strings.Join(reasons, "; ")
}
