package services

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightfold/content-backend/internal/data/repos/distribution"
	types "github.com/brightfold/content-backend/internal/domain"
	pkgerrors "github.com/brightfold/content-backend/internal/pkg/errors"
)

type fakeChangeRepo struct {
	rows     []*types.ContentChangeRecord
	appended [][]*types.ContentChangeRecord
	lastQ    distribution.ChangeQuery
}

func (f *fakeChangeRepo) Append(ctx context.Context, tx *gorm.DB, rows []*types.ContentChangeRecord) error {
	f.appended = append(f.appended, rows)
	return nil
}

func (f *fakeChangeRepo) ListSince(ctx context.Context, tx *gorm.DB, q distribution.ChangeQuery) ([]*types.ContentChangeRecord, error) {
	f.lastQ = q
	out := make([]*types.ContentChangeRecord, 0, len(f.rows))
	for _, r := range f.rows {
		switch {
		case r.ChangedAt.After(q.After):
			out = append(out, r)
		case q.AfterID != uuid.Nil && r.ChangedAt.Equal(q.After) && bytes.Compare(r.ID[:], q.AfterID[:]) > 0:
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ChangedAt.Equal(out[j].ChangedAt) {
			return out[i].ChangedAt.Before(out[j].ChangedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func changeRow(changedAt time.Time) *types.ContentChangeRecord {
	sum := "sha256:abc"
	size := int64(64)
	return &types.ContentChangeRecord{
		ID:         uuid.New(),
		ObjectID:   uuid.New(),
		VersionID:  uuid.New(),
		Locale:     "en",
		ChangeType: types.ChangeTypeUpdated,
		Checksum:   &sum,
		SizeBytes:  &size,
		ChangedAt:  changedAt,
	}
}

func TestGetDeltaPagination(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeChangeRepo{rows: []*types.ContentChangeRecord{
		changeRow(base.Add(1 * time.Second)),
		changeRow(base.Add(2 * time.Second)),
		changeRow(base.Add(3 * time.Second)),
	}}
	tracker := NewDeltaTracker(repo, NewLocaleResolver("en"), testLogger(t))

	page, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, base, "", 2)
	if err != nil {
		t.Fatalf("get delta: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if !page.HasMore {
		t.Fatalf("expected has_more with a third row pending")
	}
	if repo.lastQ.Limit != 3 {
		t.Fatalf("expected a limit+1 probe, got limit %d", repo.lastQ.Limit)
	}
	wantCursor := formatCursor(base.Add(2*time.Second), repo.rows[1].ID)
	if page.NextCursor != wantCursor {
		t.Fatalf("expected cursor %s, got %s", wantCursor, page.NextCursor)
	}

	// The next page starts strictly after the cursor and never
	// re-delivers the boundary item.
	page2, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, base, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("get delta page 2: %v", err)
	}
	if len(page2.Items) != 1 || page2.HasMore {
		t.Fatalf("expected the final single item, got %d has_more=%v", len(page2.Items), page2.HasMore)
	}
	if page2.Items[0].ChangedAt != base.Add(3*time.Second) {
		t.Fatalf("expected the third row, got %v", page2.Items[0].ChangedAt)
	}
}

func TestGetDeltaTiedTimestampsSplitAcrossPages(t *testing.T) {
	// Every locale row of one publish shares a change time. A page
	// boundary inside that group must still deliver the remaining rows.
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tied := base.Add(time.Second)
	repo := &fakeChangeRepo{rows: []*types.ContentChangeRecord{
		changeRow(tied),
		changeRow(tied),
		changeRow(tied),
	}}
	tracker := NewDeltaTracker(repo, NewLocaleResolver("en"), testLogger(t))

	page, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, base, "", 2)
	if err != nil {
		t.Fatalf("get delta: %v", err)
	}
	if len(page.Items) != 2 || !page.HasMore {
		t.Fatalf("expected 2 items with more pending, got %d has_more=%v", len(page.Items), page.HasMore)
	}

	page2, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, base, page.NextCursor, 2)
	if err != nil {
		t.Fatalf("get delta page 2: %v", err)
	}
	if len(page2.Items) != 1 || page2.HasMore {
		t.Fatalf("expected the remaining tied row, got %d has_more=%v", len(page2.Items), page2.HasMore)
	}

	seen := map[uuid.UUID]bool{}
	for _, item := range append(page.Items, page2.Items...) {
		seen[item.VersionID] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected the union of pages to cover all 3 records, got %d", len(seen))
	}
}

func TestGetDeltaEmptyPage(t *testing.T) {
	repo := &fakeChangeRepo{}
	tracker := NewDeltaTracker(repo, NewLocaleResolver("en"), testLogger(t))

	page, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, time.Now().UTC(), "", 10)
	if err != nil {
		t.Fatalf("get delta: %v", err)
	}
	if len(page.Items) != 0 || page.HasMore || page.NextCursor != "" {
		t.Fatalf("expected empty terminal page, got %+v", page)
	}
}

func TestGetDeltaBadCursor(t *testing.T) {
	tracker := NewDeltaTracker(&fakeChangeRepo{}, NewLocaleResolver("en"), testLogger(t))

	_, err := tracker.GetDelta(context.Background(), uuid.New(), DeltaFilter{}, time.Time{}, "not-a-timestamp", 10)
	if !errors.Is(err, pkgerrors.ErrInvalidState) {
		t.Fatalf("expected invalid state, got %v", err)
	}
}

func TestRecordChangeDefaultsLocaleAndChecksums(t *testing.T) {
	repo := &fakeChangeRepo{}
	tracker := NewDeltaTracker(repo, NewLocaleResolver("en"), testLogger(t))

	obj := &types.ContentObject{ID: uuid.New(), Subject: "math", GradeBand: "3-5"}
	v := versionWithTranslations()
	v.VersionNumber = 2

	if err := tracker.RecordChange(context.Background(), nil, obj, v, types.ChangeTypeUpdated, nil); err != nil {
		t.Fatalf("record change: %v", err)
	}
	if len(repo.appended) != 1 || len(repo.appended[0]) != 1 {
		t.Fatalf("expected one record for the default locale, got %+v", repo.appended)
	}
	rec := repo.appended[0][0]
	if rec.Locale != "en" {
		t.Fatalf("expected default locale, got %s", rec.Locale)
	}
	if rec.Checksum == nil || rec.SizeBytes == nil || rec.ContentKey == "" {
		t.Fatalf("expected checksum, size and content key on an update")
	}
	if rec.Subject != "math" || rec.GradeBand != "3-5" || rec.VersionNumber != 2 {
		t.Fatalf("expected denormalized object fields, got %+v", rec)
	}
}

func TestRecordChangeRemovedCarriesNoChecksum(t *testing.T) {
	repo := &fakeChangeRepo{}
	tracker := NewDeltaTracker(repo, NewLocaleResolver("en"), testLogger(t))

	obj := &types.ContentObject{ID: uuid.New()}
	v := versionWithTranslations()

	if err := tracker.RecordChange(context.Background(), nil, obj, v, types.ChangeTypeRemoved, []string{"en", "es"}); err != nil {
		t.Fatalf("record change: %v", err)
	}
	if len(repo.appended) != 1 || len(repo.appended[0]) != 2 {
		t.Fatalf("expected one record per locale, got %+v", repo.appended)
	}
	for _, rec := range repo.appended[0] {
		if rec.Checksum != nil || rec.SizeBytes != nil || rec.ContentKey != "" {
			t.Fatalf("removed entries must carry no checksum or content key")
		}
	}
}
