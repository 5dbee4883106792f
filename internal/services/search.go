package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/data/repos/catalog"
	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// SearchCandidate is one row of the broad candidate superset the search
// collaborator returns for a selection query. The selector only scores and
// filters what it is given.
type SearchCandidate struct {
	ObjectID  uuid.UUID
	VersionID uuid.UUID
	Slug      string
	Title     string
	Subject   string
	GradeBand string

	SkillIDs         []string
	Difficulty       string
	ContentType      string
	EstimatedMinutes int
	Accessibility    types.AccessibilityFlags
}

// PrimarySkill is the first listed skill of the content; the rest are
// secondary for scoring purposes.
func (c SearchCandidate) PrimarySkill() string {
	if len(c.SkillIDs) == 0 {
		return ""
	}
	return c.SkillIDs[0]
}

// SearchService supplies candidate supersets for selection queries. The
// default implementation is catalog-backed; deployments with a dedicated
// search index plug in their own.
type SearchService interface {
	FindCandidates(ctx context.Context, tenantID uuid.UUID, subject, gradeBand string, skills []string, limit int) ([]SearchCandidate, error)
}

type catalogSearchService struct {
	contentRepo catalog.ContentRepo
	log         *logger.Logger
}

func NewCatalogSearchService(contentRepo catalog.ContentRepo, baseLog *logger.Logger) SearchService {
	return &catalogSearchService{
		contentRepo: contentRepo,
		log:         baseLog.With("service", "CatalogSearchService"),
	}
}

func (s *catalogSearchService) FindCandidates(ctx context.Context, tenantID uuid.UUID, subject, gradeBand string, skills []string, limit int) ([]SearchCandidate, error) {
	filter := catalog.ListFilter{
		Subject:   subject,
		GradeBand: gradeBand,
	}
	if tenantID != uuid.Nil {
		filter.TenantID = &tenantID
	}

	rows, _, err := s.contentRepo.ListCurrentPublished(ctx, nil, filter, limit, 0)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	want := make(map[string]bool, len(skills))
	for _, skill := range skills {
		want[skill] = true
	}

	out := make([]SearchCandidate, 0, len(rows))
	for _, row := range rows {
		meta := row.Version.Metadata.Data()
		if len(want) > 0 && !matchesAnySkill(meta.SkillIDs, want) {
			continue
		}
		out = append(out, SearchCandidate{
			ObjectID:         row.Object.ID,
			VersionID:        row.Version.ID,
			Slug:             row.Object.Slug,
			Title:            row.Object.Title,
			Subject:          row.Object.Subject,
			GradeBand:        row.Object.GradeBand,
			SkillIDs:         meta.SkillIDs,
			Difficulty:       meta.Difficulty,
			ContentType:      meta.ContentType,
			EstimatedMinutes: meta.EstimatedMinutes,
			Accessibility:    row.Version.Accessibility.Data(),
		})
	}
	return out, nil
}

func matchesAnySkill(skillIDs []string, want map[string]bool) bool {
	for _, s := range skillIDs {
		if want[s] {
			return true
		}
	}
	return false
}
