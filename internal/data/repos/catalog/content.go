package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// ListFilter narrows a catalog listing. Zero values mean "no constraint".
// TenantID restricts to rows owned by that tenant or globally shared.
type ListFilter struct {
	Subject   string
	GradeBand string
	SkillID   string
	TenantID  *uuid.UUID
}

// DistributionFilter selects the published versions belonging in one bulk
// package: tenant-specific or globally shared, restricted to the requested
// grade bands/subjects, optionally only rows changed since the cutoff.
type DistributionFilter struct {
	TenantID   uuid.UUID
	GradeBands []string
	Subjects   []string
	Since      *time.Time
}

// VersionWithObject pairs a version with its owning object for callers
// that need both without a second lookup.
type VersionWithObject struct {
	Object  *types.ContentObject
	Version *types.ContentVersion
}

type ContentRepo interface {
	CreateObject(ctx context.Context, tx *gorm.DB, row *types.ContentObject) error
	GetObjectByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentObject, error)
	GetObjectBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ContentObject, error)

	CreateVersion(ctx context.Context, tx *gorm.DB, row *types.ContentVersion) error
	GetVersionByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentVersion, error)
	UpdateVersionFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	NextVersionNumber(ctx context.Context, tx *gorm.DB, objectID uuid.UUID) (int, error)

	// CurrentVersion returns the highest-numbered version of the object in
	// any of the given states, with translations preloaded. Nil when the
	// object has no version in those states.
	CurrentVersion(ctx context.Context, tx *gorm.DB, objectID uuid.UUID, states []string) (*types.ContentVersion, error)

	CreateTranslation(ctx context.Context, tx *gorm.DB, row *types.Translation) error
	UpdateTranslationFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error

	// ListCurrentPublished pages over the current published version of
	// every object matching the filter, newest objects first, and returns
	// the unpaged total.
	ListCurrentPublished(ctx context.Context, tx *gorm.DB, filter ListFilter, limit, offset int) ([]VersionWithObject, int64, error)

	// ListForDistribution returns every published version matching the
	// distribution filter, translations preloaded.
	ListForDistribution(ctx context.Context, tx *gorm.DB, filter DistributionFilter) ([]VersionWithObject, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) CreateObject(ctx context.Context, tx *gorm.DB, row *types.ContentObject) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *contentRepo) GetObjectByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ContentObject
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) GetObjectBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.ContentObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if slug == "" {
		return nil, nil
	}
	var rows []*types.ContentObject
	if err := t.WithContext(ctx).Where("slug = ?", slug).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) CreateVersion(ctx context.Context, tx *gorm.DB, row *types.ContentVersion) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *contentRepo) GetVersionByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentVersion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ContentVersion
	if err := t.WithContext(ctx).
		Preload("Translations").
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) UpdateVersionFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.ContentVersion{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *contentRepo) NextVersionNumber(ctx context.Context, tx *gorm.DB, objectID uuid.UUID) (int, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var max *int
	if err := t.WithContext(ctx).
		Model(&types.ContentVersion{}).
		Where("object_id = ?", objectID).
		Select("MAX(version_number)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *contentRepo) CurrentVersion(ctx context.Context, tx *gorm.DB, objectID uuid.UUID, states []string) (*types.ContentVersion, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if objectID == uuid.Nil {
		return nil, nil
	}
	if len(states) == 0 {
		states = []string{types.VersionStatePublished}
	}
	var rows []*types.ContentVersion
	if err := t.WithContext(ctx).
		Preload("Translations").
		Where("object_id = ? AND state IN ?", objectID, states).
		Order("version_number DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contentRepo) CreateTranslation(ctx context.Context, tx *gorm.DB, row *types.Translation) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *contentRepo) UpdateTranslationFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.Translation{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *contentRepo) ListCurrentPublished(ctx context.Context, tx *gorm.DB, filter ListFilter, limit, offset int) ([]VersionWithObject, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	q := t.WithContext(ctx).
		Model(&types.ContentObject{}).
		Where("deleted_at IS NULL")
	if filter.Subject != "" {
		q = q.Where("subject = ?", filter.Subject)
	}
	if filter.GradeBand != "" {
		q = q.Where("grade_band = ?", filter.GradeBand)
	}
	if filter.TenantID != nil {
		q = q.Where("tenant_id = ? OR tenant_id IS NULL", *filter.TenantID)
	}
	// Only objects that actually have a published version count. The
	// skill condition binds to the current published version, the one the
	// page returns, so the total matches what pagination can reach.
	sub := t.WithContext(ctx).
		Model(&types.ContentVersion{}).
		Select("object_id").
		Where("state = ?", types.VersionStatePublished)
	if filter.SkillID != "" {
		sub = sub.
			Where("metadata -> 'skill_ids' @> to_jsonb(?::text)", filter.SkillID).
			Where("version_number = (SELECT MAX(cv.version_number) FROM content_version cv WHERE cv.object_id = content_version.object_id AND cv.state = ?)", types.VersionStatePublished)
	}
	q = q.Where("id IN (?)", sub)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var objects []*types.ContentObject
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&objects).Error; err != nil {
		return nil, 0, err
	}

	out := make([]VersionWithObject, 0, len(objects))
	for _, obj := range objects {
		v, err := r.CurrentVersion(ctx, tx, obj.ID, []string{types.VersionStatePublished})
		if err != nil {
			return nil, 0, err
		}
		if v == nil {
			continue
		}
		if filter.SkillID != "" && !hasSkill(v, filter.SkillID) {
			continue
		}
		out = append(out, VersionWithObject{Object: obj, Version: v})
	}
	return out, total, nil
}

func hasSkill(v *types.ContentVersion, skillID string) bool {
	for _, s := range v.Metadata.Data().SkillIDs {
		if s == skillID {
			return true
		}
	}
	return false
}

func (r *contentRepo) ListForDistribution(ctx context.Context, tx *gorm.DB, filter DistributionFilter) ([]VersionWithObject, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	q := t.WithContext(ctx).
		Model(&types.ContentObject{}).
		Where("deleted_at IS NULL").
		Where("tenant_id = ? OR tenant_id IS NULL", filter.TenantID)
	if len(filter.GradeBands) > 0 {
		q = q.Where("grade_band IN ?", filter.GradeBands)
	}
	if len(filter.Subjects) > 0 {
		q = q.Where("subject IN ?", filter.Subjects)
	}

	var objects []*types.ContentObject
	if err := q.Order("created_at ASC").Find(&objects).Error; err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(objects))
	byID := make(map[uuid.UUID]*types.ContentObject, len(objects))
	for _, obj := range objects {
		ids = append(ids, obj.ID)
		byID[obj.ID] = obj
	}

	vq := t.WithContext(ctx).
		Preload("Translations").
		Where("object_id IN ? AND state = ?", ids, types.VersionStatePublished)
	if filter.Since != nil {
		vq = vq.Where("updated_at > ? OR published_at > ?", *filter.Since, *filter.Since)
	}

	var versions []*types.ContentVersion
	if err := vq.Order("published_at ASC").Find(&versions).Error; err != nil {
		return nil, err
	}

	// Keep only the current published version per object.
	current := make(map[uuid.UUID]*types.ContentVersion, len(versions))
	for _, v := range versions {
		if cur, ok := current[v.ObjectID]; !ok || v.VersionNumber > cur.VersionNumber {
			current[v.ObjectID] = v
		}
	}

	out := make([]VersionWithObject, 0, len(current))
	for _, obj := range objects {
		if v, ok := current[obj.ID]; ok {
			out = append(out, VersionWithObject{Object: obj, Version: v})
		}
	}
	return out, nil
}
