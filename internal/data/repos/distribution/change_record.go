package distribution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// ChangeQuery selects a page of change history, ordered by
// (changed_at, id) ascending. The boundary is exclusive: with AfterID set,
// only rows strictly past the (After, AfterID) pair are returned, so a
// page boundary inside a group of tied timestamps still advances row by
// row. Without AfterID only changed_at is compared. Limit is passed
// through as-is so callers can probe with limit+1.
type ChangeQuery struct {
	TenantID   uuid.UUID
	Subjects   []string
	GradeBands []string
	Locales    []string
	After      time.Time
	AfterID    uuid.UUID
	Limit      int
}

type ChangeRecordRepo interface {
	Append(ctx context.Context, tx *gorm.DB, rows []*types.ContentChangeRecord) error
	ListSince(ctx context.Context, tx *gorm.DB, q ChangeQuery) ([]*types.ContentChangeRecord, error)
}

type changeRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChangeRecordRepo(db *gorm.DB, baseLog *logger.Logger) ChangeRecordRepo {
	return &changeRecordRepo{db: db, log: baseLog.With("repo", "ChangeRecordRepo")}
}

func (r *changeRecordRepo) Append(ctx context.Context, tx *gorm.DB, rows []*types.ContentChangeRecord) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return t.WithContext(ctx).Create(&rows).Error
}

func (r *changeRecordRepo) ListSince(ctx context.Context, tx *gorm.DB, q ChangeQuery) ([]*types.ContentChangeRecord, error) {
	t := tx
	if t == nil {
		t = r.db
	}

	query := t.WithContext(ctx).
		Where("tenant_id = ? OR tenant_id IS NULL", q.TenantID)
	if q.AfterID != uuid.Nil {
		query = query.Where("(changed_at, id) > (?, ?)", q.After, q.AfterID)
	} else {
		query = query.Where("changed_at > ?", q.After)
	}
	if len(q.Subjects) > 0 {
		query = query.Where("subject IN ?", q.Subjects)
	}
	if len(q.GradeBands) > 0 {
		query = query.Where("grade_band IN ?", q.GradeBands)
	}
	if len(q.Locales) > 0 {
		query = query.Where("locale IN ?", q.Locales)
	}

	var rows []*types.ContentChangeRecord
	if err := query.Order("changed_at ASC, id ASC").Limit(q.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
