package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/brightfold/content-backend/internal/domain"
)

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func SeedObject(tb testing.TB, ctx context.Context, tx *gorm.DB, slug, subject, gradeBand string, tenantID *uuid.UUID) *types.ContentObject {
	tb.Helper()
	obj := &types.ContentObject{
		ID:        uuid.New(),
		Slug:      slug,
		Subject:   subject,
		GradeBand: gradeBand,
		TenantID:  tenantID,
		Title:     slug,
	}
	if err := tx.WithContext(ctx).Create(obj).Error; err != nil {
		tb.Fatalf("seed object: %v", err)
	}
	return obj
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, objectID uuid.UUID, number int, state string, meta types.ContentMetadata) *types.ContentVersion {
	tb.Helper()
	v := &types.ContentVersion{
		ID:            uuid.New(),
		ObjectID:      objectID,
		VersionNumber: number,
		State:         state,
		Payload: datatypes.NewJSONType(types.ContentPayload{
			Title:  "seed",
			Blocks: []types.ContentBlock{{Kind: "text", Text: "hello"}},
		}),
		Accessibility: datatypes.NewJSONType(types.AccessibilityFlags{}),
		Metadata:      datatypes.NewJSONType(meta),
	}
	if state == types.VersionStatePublished {
		v.PublishedAt = PtrTime(time.Now().UTC())
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	return v
}

func SeedTranslation(tb testing.TB, ctx context.Context, tx *gorm.DB, versionID uuid.UUID, locale, status string) *types.Translation {
	tb.Helper()
	tr := &types.Translation{
		ID:        uuid.New(),
		VersionID: versionID,
		Locale:    locale,
		Status:    status,
	}
	if err := tx.WithContext(ctx).Create(tr).Error; err != nil {
		tb.Fatalf("seed translation: %v", err)
	}
	return tr
}

func SeedChangeRecord(tb testing.TB, ctx context.Context, tx *gorm.DB, tenantID *uuid.UUID, versionID uuid.UUID, locale, changeType string, changedAt time.Time) *types.ContentChangeRecord {
	tb.Helper()
	rec := &types.ContentChangeRecord{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ObjectID:   uuid.New(),
		VersionID:  versionID,
		Locale:     locale,
		ChangeType: changeType,
		ChangedAt:  changedAt,
	}
	if changeType != types.ChangeTypeRemoved {
		sum := "sha256:deadbeef"
		size := int64(128)
		rec.Checksum = &sum
		rec.SizeBytes = &size
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed change record: %v", err)
	}
	return rec
}
