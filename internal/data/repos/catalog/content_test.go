package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/data/repos/testutil"
	types "github.com/brightfold/content-backend/internal/domain"
)

func TestCurrentVersionPicksHighestPublished(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewContentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	obj := testutil.SeedObject(t, ctx, tx, "current-version", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, obj.ID, 1, types.VersionStatePublished, types.ContentMetadata{})
	v2 := testutil.SeedVersion(t, ctx, tx, obj.ID, 2, types.VersionStatePublished, types.ContentMetadata{})
	testutil.SeedVersion(t, ctx, tx, obj.ID, 3, types.VersionStateDraft, types.ContentMetadata{})
	testutil.SeedTranslation(t, ctx, tx, v2.ID, "es", types.TranslationStatusReady)

	got, err := repo.CurrentVersion(ctx, tx, obj.ID, []string{types.VersionStatePublished})
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if got == nil || got.ID != v2.ID {
		t.Fatalf("expected v2 as current published, got %+v", got)
	}
	if len(got.Translations) != 1 || got.Translations[0].Locale != "es" {
		t.Fatalf("expected translations preloaded, got %+v", got.Translations)
	}

	// With drafts allowed the newer draft wins.
	got, err = repo.CurrentVersion(ctx, tx, obj.ID, []string{types.VersionStatePublished, types.VersionStateDraft})
	if err != nil {
		t.Fatalf("current version with drafts: %v", err)
	}
	if got == nil || got.VersionNumber != 3 {
		t.Fatalf("expected the draft v3, got %+v", got)
	}
}

func TestNextVersionNumber(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewContentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	obj := testutil.SeedObject(t, ctx, tx, "next-number", "math", "3-5", nil)

	n, err := repo.NextVersionNumber(ctx, tx, obj.ID)
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 for a fresh object, got %d", n)
	}

	testutil.SeedVersion(t, ctx, tx, obj.ID, 1, types.VersionStatePublished, types.ContentMetadata{})
	testutil.SeedVersion(t, ctx, tx, obj.ID, 2, types.VersionStateDraft, types.ContentMetadata{})

	n, err = repo.NextVersionNumber(ctx, tx, obj.ID)
	if err != nil {
		t.Fatalf("next number: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
}

func TestListCurrentPublishedFilters(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewContentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	tenant := uuid.New()
	other := uuid.New()

	shared := testutil.SeedObject(t, ctx, tx, "lcp-shared", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, shared.ID, 1, types.VersionStatePublished, types.ContentMetadata{SkillIDs: []string{"frac.intro"}})

	owned := testutil.SeedObject(t, ctx, tx, "lcp-owned", "math", "3-5", testutil.PtrUUID(tenant))
	testutil.SeedVersion(t, ctx, tx, owned.ID, 1, types.VersionStatePublished, types.ContentMetadata{SkillIDs: []string{"frac.compare"}})

	foreign := testutil.SeedObject(t, ctx, tx, "lcp-foreign", "math", "3-5", testutil.PtrUUID(other))
	testutil.SeedVersion(t, ctx, tx, foreign.ID, 1, types.VersionStatePublished, types.ContentMetadata{})

	draftOnly := testutil.SeedObject(t, ctx, tx, "lcp-draft", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, draftOnly.ID, 1, types.VersionStateDraft, types.ContentMetadata{})

	testutil.SeedObject(t, ctx, tx, "lcp-reading", "reading", "3-5", nil)

	rows, total, err := repo.ListCurrentPublished(ctx, tx, ListFilter{Subject: "math", TenantID: testutil.PtrUUID(tenant)}, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected shared + owned, got total %d", total)
	}
	slugs := map[string]bool{}
	for _, row := range rows {
		slugs[row.Object.Slug] = true
		if row.Version.State != types.VersionStatePublished {
			t.Fatalf("expected only published versions, got %s", row.Version.State)
		}
	}
	if !slugs["lcp-shared"] || !slugs["lcp-owned"] || slugs["lcp-foreign"] || slugs["lcp-draft"] {
		t.Fatalf("unexpected result set: %v", slugs)
	}

	// Skill filter narrows inside the same tenant scope.
	rows, _, err = repo.ListCurrentPublished(ctx, tx, ListFilter{Subject: "math", SkillID: "frac.compare", TenantID: testutil.PtrUUID(tenant)}, 10, 0)
	if err != nil {
		t.Fatalf("list by skill: %v", err)
	}
	if len(rows) != 1 || rows[0].Object.Slug != "lcp-owned" {
		t.Fatalf("expected only the skill match, got %+v", rows)
	}
}

func TestListCurrentPublishedSkillTotalTracksCurrentVersion(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewContentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	// The skill was on v1 and dropped in v2, so the object is no longer
	// reachable through the skill filter. The total must agree.
	dropped := testutil.SeedObject(t, ctx, tx, "lcp-skill-dropped", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, dropped.ID, 1, types.VersionStatePublished, types.ContentMetadata{SkillIDs: []string{"frac.intro"}})
	testutil.SeedVersion(t, ctx, tx, dropped.ID, 2, types.VersionStatePublished, types.ContentMetadata{SkillIDs: []string{"frac.compare"}})

	kept := testutil.SeedObject(t, ctx, tx, "lcp-skill-kept", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, kept.ID, 1, types.VersionStatePublished, types.ContentMetadata{SkillIDs: []string{"frac.intro"}})

	rows, total, err := repo.ListCurrentPublished(ctx, tx, ListFilter{Subject: "math", SkillID: "frac.intro"}, 10, 0)
	if err != nil {
		t.Fatalf("list by skill: %v", err)
	}
	if len(rows) != 1 || rows[0].Object.Slug != "lcp-skill-kept" {
		t.Fatalf("expected only the object whose current version carries the skill, got %+v", rows)
	}
	if total != int64(len(rows)) {
		t.Fatalf("total %d disagrees with the %d reachable items", total, len(rows))
	}
}

func TestListForDistribution(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	repo := NewContentRepo(tx, testutil.Logger(t))
	ctx := context.Background()

	tenant := uuid.New()

	obj := testutil.SeedObject(t, ctx, tx, "dist-multi", "math", "3-5", nil)
	testutil.SeedVersion(t, ctx, tx, obj.ID, 1, types.VersionStatePublished, types.ContentMetadata{})
	v2 := testutil.SeedVersion(t, ctx, tx, obj.ID, 2, types.VersionStatePublished, types.ContentMetadata{})

	otherBand := testutil.SeedObject(t, ctx, tx, "dist-otherband", "math", "6-8", nil)
	testutil.SeedVersion(t, ctx, tx, otherBand.ID, 1, types.VersionStatePublished, types.ContentMetadata{})

	rows, err := repo.ListForDistribution(ctx, tx, DistributionFilter{
		TenantID:   tenant,
		GradeBands: []string{"3-5"},
		Subjects:   []string{"math"},
	})
	if err != nil {
		t.Fatalf("list for distribution: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one current version per object, got %d", len(rows))
	}
	if rows[0].Version.ID != v2.ID {
		t.Fatalf("expected the highest published version, got v%d", rows[0].Version.VersionNumber)
	}

	// A future cutoff excludes everything.
	future := time.Now().UTC().Add(time.Hour)
	rows, err = repo.ListForDistribution(ctx, tx, DistributionFilter{
		TenantID: tenant,
		Since:    testutil.PtrTime(future),
	})
	if err != nil {
		t.Fatalf("list with cutoff: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows past a future cutoff, got %d", len(rows))
	}
}
