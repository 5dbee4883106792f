package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightfold/content-backend/internal/data/repos/distribution"
	types "github.com/brightfold/content-backend/internal/domain"
	pkgerrors "github.com/brightfold/content-backend/internal/pkg/errors"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

const defaultDeltaLimit = 100

// DeltaFilter narrows a diff query. Empty slices mean "all".
type DeltaFilter struct {
	Subjects   []string
	GradeBands []string
	Locales    []string
}

// ChangeItem is one entry of incremental change history. Checksum and
// SizeBytes are nil for removed entries.
type ChangeItem struct {
	VersionID     uuid.UUID `json:"version_id"`
	ObjectID      uuid.UUID `json:"object_id"`
	Locale        string    `json:"locale"`
	ChangeType    string    `json:"change_type"`
	Subject       string    `json:"subject,omitempty"`
	GradeBand     string    `json:"grade_band,omitempty"`
	VersionNumber int       `json:"version_number,omitempty"`
	ContentKey    string    `json:"content_key,omitempty"`
	Checksum      *string   `json:"checksum,omitempty"`
	SizeBytes     *int64    `json:"size_bytes,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// DeltaPage is one page of ordered change history. NextCursor is opaque to
// callers and strictly advances: replaying it never re-delivers the
// boundary item, though a crashed consumer retrying an unacknowledged page
// will see that page again (at-least-once).
type DeltaPage struct {
	Items      []ChangeItem `json:"items"`
	HasMore    bool         `json:"has_more"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type DeltaTracker interface {
	// RecordChange appends one immutable change record per locale for the
	// version transition, on tx when given. For removed entries no
	// checksum is computed.
	RecordChange(ctx context.Context, tx *gorm.DB, obj *types.ContentObject, v *types.ContentVersion, changeType string, locales []string) error

	GetDelta(ctx context.Context, tenantID uuid.UUID, filter DeltaFilter, since time.Time, cursor string, limit int) (*DeltaPage, error)
}

type deltaTracker struct {
	changeRepo distribution.ChangeRecordRepo
	resolver   *LocaleResolver
	log        *logger.Logger
}

func NewDeltaTracker(changeRepo distribution.ChangeRecordRepo, resolver *LocaleResolver, baseLog *logger.Logger) DeltaTracker {
	return &deltaTracker{
		changeRepo: changeRepo,
		resolver:   resolver,
		log:        baseLog.With("service", "DeltaTracker"),
	}
}

func (d *deltaTracker) RecordChange(ctx context.Context, tx *gorm.DB, obj *types.ContentObject, v *types.ContentVersion, changeType string, locales []string) error {
	if len(locales) == 0 {
		locales = []string{d.resolver.DefaultLocale()}
	}
	now := time.Now().UTC()

	rows := make([]*types.ContentChangeRecord, 0, len(locales))
	for _, locale := range locales {
		rec := &types.ContentChangeRecord{
			ID:            uuid.New(),
			TenantID:      obj.TenantID,
			ObjectID:      obj.ID,
			VersionID:     v.ID,
			Locale:        locale,
			ChangeType:    changeType,
			Subject:       obj.Subject,
			GradeBand:     obj.GradeBand,
			VersionNumber: v.VersionNumber,
			ChangedAt:     now,
		}
		if changeType != types.ChangeTypeRemoved {
			sum, size, err := variantChecksum(d.resolver, locale, v)
			if err != nil {
				return fmt.Errorf("checksum for locale %q: %w", locale, err)
			}
			rec.Checksum = &sum
			rec.SizeBytes = &size
			rec.ContentKey = ContentKey(v.ID, locale)
		}
		rows = append(rows, rec)
	}
	return d.changeRepo.Append(ctx, tx, rows)
}

func (d *deltaTracker) GetDelta(ctx context.Context, tenantID uuid.UUID, filter DeltaFilter, since time.Time, cursor string, limit int) (*DeltaPage, error) {
	if limit <= 0 {
		limit = defaultDeltaLimit
	}

	after := since
	var afterID uuid.UUID
	if cursor != "" {
		parsed, id, err := parseCursor(cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: bad cursor", pkgerrors.ErrInvalidState)
		}
		after, afterID = parsed, id
	}

	// Probe one row past the limit so hasMore needs no count query.
	rows, err := d.changeRepo.ListSince(ctx, nil, distribution.ChangeQuery{
		TenantID:   tenantID,
		Subjects:   filter.Subjects,
		GradeBands: filter.GradeBands,
		Locales:    filter.Locales,
		After:      after,
		AfterID:    afterID,
		Limit:      limit + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := &DeltaPage{
		Items:   make([]ChangeItem, 0, len(rows)),
		HasMore: hasMore,
	}
	for _, rec := range rows {
		page.Items = append(page.Items, ChangeItem{
			VersionID:     rec.VersionID,
			ObjectID:      rec.ObjectID,
			Locale:        rec.Locale,
			ChangeType:    rec.ChangeType,
			Subject:       rec.Subject,
			GradeBand:     rec.GradeBand,
			VersionNumber: rec.VersionNumber,
			ContentKey:    rec.ContentKey,
			Checksum:      rec.Checksum,
			SizeBytes:     rec.SizeBytes,
			ChangedAt:     rec.ChangedAt,
		})
	}
	if len(rows) > 0 {
		// Cursor names the last included row, not the probe row, so the
		// next call strictly progresses. The record id is part of the
		// cursor because every locale row of one transition shares a
		// change time: a page boundary inside that group must not drop
		// the remaining rows.
		last := rows[len(rows)-1]
		page.NextCursor = formatCursor(last.ChangedAt, last.ID)
	}
	return page, nil
}

func formatCursor(changedAt time.Time, id uuid.UUID) string {
	return changedAt.Format(time.RFC3339Nano) + "|" + id.String()
}

func parseCursor(cursor string) (time.Time, uuid.UUID, error) {
	ts, rawID, ok := strings.Cut(cursor, "|")
	if !ok {
		return time.Time{}, uuid.Nil, fmt.Errorf("missing id separator")
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return time.Time{}, uuid.Nil, err
	}
	return parsed, id, nil
}
