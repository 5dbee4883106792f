package distribution

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

type PackageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ContentPackage) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentPackage, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.ContentPackage, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type packageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPackageRepo(db *gorm.DB, baseLog *logger.Logger) PackageRepo {
	return &packageRepo{db: db, log: baseLog.With("repo", "PackageRepo")}
}

func (r *packageRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ContentPackage) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *packageRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentPackage, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.ContentPackage
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *packageRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&types.ContentPackage{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *packageRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uuid.UUID) ([]*types.ContentPackage, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.ContentPackage
	if err := t.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *packageRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.ContentPackage{}).Error
}
