package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightfold/content-backend/internal/data/repos/catalog"
	types "github.com/brightfold/content-backend/internal/domain"
	pkgerrors "github.com/brightfold/content-backend/internal/pkg/errors"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// CatalogService performs the version state transitions that feed the
// delta tracker. Versions are immutable; publishing and retiring only
// flip state and append change history, in one transaction.
type CatalogService interface {
	PublishVersion(ctx context.Context, versionID uuid.UUID, locales []string) error
	RetireVersion(ctx context.Context, versionID uuid.UUID, locales []string) error
}

type catalogService struct {
	db          *gorm.DB
	contentRepo catalog.ContentRepo
	changeRepo  changeAppender
	resolver    *LocaleResolver
	log         *logger.Logger
}

// changeAppender is the slice of DeltaTracker the catalog needs.
type changeAppender interface {
	RecordChange(ctx context.Context, tx *gorm.DB, obj *types.ContentObject, v *types.ContentVersion, changeType string, locales []string) error
}

func NewCatalogService(db *gorm.DB, contentRepo catalog.ContentRepo, tracker DeltaTracker, resolver *LocaleResolver, baseLog *logger.Logger) CatalogService {
	return &catalogService{
		db:          db,
		contentRepo: contentRepo,
		changeRepo:  tracker,
		resolver:    resolver,
		log:         baseLog.With("service", "CatalogService"),
	}
}

func (s *catalogService) PublishVersion(ctx context.Context, versionID uuid.UUID, locales []string) error {
	return s.transition(ctx, versionID, locales, true)
}

func (s *catalogService) RetireVersion(ctx context.Context, versionID uuid.UUID, locales []string) error {
	return s.transition(ctx, versionID, locales, false)
}

func (s *catalogService) transition(ctx context.Context, versionID uuid.UUID, locales []string, publish bool) error {
	v, err := s.contentRepo.GetVersionByID(ctx, nil, versionID)
	if err != nil {
		return fmt.Errorf("load version: %w", err)
	}
	if v == nil {
		return fmt.Errorf("%w: version %s", pkgerrors.ErrNotFound, versionID)
	}
	obj, err := s.contentRepo.GetObjectByID(ctx, nil, v.ObjectID)
	if err != nil {
		return fmt.Errorf("load object: %w", err)
	}
	if obj == nil {
		return fmt.Errorf("%w: object %s", pkgerrors.ErrNotFound, v.ObjectID)
	}

	if publish {
		if v.State != types.VersionStateDraft {
			return fmt.Errorf("%w: only draft versions can be published (state=%s)", pkgerrors.ErrInvalidState, v.State)
		}
	} else {
		if v.State != types.VersionStatePublished {
			return fmt.Errorf("%w: only published versions can be retired (state=%s)", pkgerrors.ErrInvalidState, v.State)
		}
	}

	changeType := types.ChangeTypeRemoved
	updates := map[string]interface{}{"state": types.VersionStateRetired}
	if publish {
		// A previously published version of the same object makes this an
		// update from the consumer's point of view, not a new addition.
		prior, err := s.contentRepo.CurrentVersion(ctx, nil, obj.ID, []string{types.VersionStatePublished})
		if err != nil {
			return fmt.Errorf("check prior version: %w", err)
		}
		changeType = types.ChangeTypeAdded
		if prior != nil {
			changeType = types.ChangeTypeUpdated
		}
		updates = map[string]interface{}{
			"state":        types.VersionStatePublished,
			"published_at": time.Now().UTC(),
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.UpdateVersionFields(ctx, tx, v.ID, updates); err != nil {
			return fmt.Errorf("update version state: %w", err)
		}
		if publish {
			v.State = types.VersionStatePublished
		} else {
			v.State = types.VersionStateRetired
		}
		if err := s.changeRepo.RecordChange(ctx, tx, obj, v, changeType, locales); err != nil {
			return fmt.Errorf("record change: %w", err)
		}
		return nil
	})
}
