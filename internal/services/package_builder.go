package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/brightfold/content-backend/internal/data/repos/catalog"
	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/checksum"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

const buildConcurrency = 8

// PackageBuilder assembles a full manifest for one package filter: one
// item per (version, locale) with checksum and a time-limited content URL,
// the manifest document itself uploaded to the bucket.
type PackageBuilder interface {
	Build(ctx context.Context, pkg *types.ContentPackage) (*types.Manifest, error)
}

type packageBuilder struct {
	contentRepo catalog.ContentRepo
	bucket      BucketService
	resolver    *LocaleResolver
	log         *logger.Logger
}

func NewPackageBuilder(contentRepo catalog.ContentRepo, bucket BucketService, resolver *LocaleResolver, baseLog *logger.Logger) PackageBuilder {
	return &packageBuilder{
		contentRepo: contentRepo,
		bucket:      bucket,
		resolver:    resolver,
		log:         baseLog.With("service", "PackageBuilder"),
	}
}

func ManifestKey(pkgID uuid.UUID) string {
	return fmt.Sprintf("manifests/%s.json", pkgID)
}

func (b *packageBuilder) Build(ctx context.Context, pkg *types.ContentPackage) (*types.Manifest, error) {
	rows, err := b.contentRepo.ListForDistribution(ctx, nil, catalog.DistributionFilter{
		TenantID:   pkg.TenantID,
		GradeBands: pkg.GradeBands,
		Subjects:   pkg.Subjects,
		Since:      pkg.SinceCutoff,
	})
	if err != nil {
		return nil, fmt.Errorf("list distributable content: %w", err)
	}

	locales := []string(pkg.Locales)
	if len(locales) == 0 {
		locales = []string{b.resolver.DefaultLocale()}
	}
	urlTTL := time.Duration(pkg.URLExpirationHours) * time.Hour

	type itemSlot struct {
		row    catalog.VersionWithObject
		locale string
	}
	slots := make([]itemSlot, 0, len(rows)*len(locales))
	for _, row := range rows {
		for _, locale := range locales {
			slots = append(slots, itemSlot{row: row, locale: locale})
		}
	}

	items := make([]types.ManifestItem, len(slots))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for i, slot := range slots {
		g.Go(func() error {
			item, err := b.buildItem(gctx, slot.row, slot.locale, urlTTL)
			if err != nil {
				return err
			}
			mu.Lock()
			items[i] = *item
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	manifest := &types.Manifest{
		PackageID:   pkg.ID,
		TenantID:    pkg.TenantID,
		GeneratedAt: now,
		ExpiresAt:   now.Add(urlTTL),
		Items:       items,
		TotalItems:  len(items),
	}
	for _, item := range items {
		manifest.TotalBytes += item.SizeBytes
	}

	if _, err := b.bucket.UploadJSON(ctx, ManifestKey(pkg.ID), manifest); err != nil {
		return nil, fmt.Errorf("store manifest: %w", err)
	}
	return manifest, nil
}

func (b *packageBuilder) buildItem(ctx context.Context, row catalog.VersionWithObject, locale string, urlTTL time.Duration) (*types.ManifestItem, error) {
	v := row.Version
	variant := b.resolver.Resolve(locale, v)

	// The stored document is the canonical bytes the checksum covers, so
	// a consumer hashing its download reproduces the manifest checksum
	// and the size here matches the change feed's.
	canon, err := checksum.Canonicalize(canonicalVariant{
		Payload:       variant.Payload,
		Accessibility: variant.Accessibility,
		Metadata:      variant.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("canonicalize content: %w", err)
	}
	sum := checksum.Sum(canon)

	key := ContentKey(v.ID, locale)
	size, err := b.bucket.UploadJSON(ctx, key, json.RawMessage(canon))
	if err != nil {
		return nil, fmt.Errorf("upload content %q: %w", key, err)
	}

	url, err := b.bucket.SignedURL(key, urlTTL)
	if err != nil {
		return nil, err
	}

	return &types.ManifestItem{
		VersionID:     v.ID,
		ObjectID:      row.Object.ID,
		ContentKey:    key,
		Checksum:      sum,
		ContentURL:    url,
		SizeBytes:     size,
		Subject:       row.Object.Subject,
		GradeBand:     row.Object.GradeBand,
		VersionNumber: v.VersionNumber,
		Locale:        locale,
		PublishedAt:   v.PublishedAt,
		UpdatedAt:     v.UpdatedAt,
	}, nil
}
