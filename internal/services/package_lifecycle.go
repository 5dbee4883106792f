package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/data/repos/distribution"
	types "github.com/brightfold/content-backend/internal/domain"
	"github.com/brightfold/content-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/brightfold/content-backend/internal/pkg/errors"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// CreatePackageRequest is the filter for one bulk-export request.
type CreatePackageRequest struct {
	TenantID           uuid.UUID
	GradeBands         []string
	Subjects           []string
	Locales            []string
	SinceCutoff        *time.Time
	URLExpirationHours int
}

// PackageStatus is the consumer view of a package row.
type PackageStatus struct {
	PackageID    uuid.UUID  `json:"package_id"`
	Status       string     `json:"status"`
	ManifestURL  string     `json:"manifest_url,omitempty"`
	TotalItems   int        `json:"total_items"`
	TotalBytes   int64      `json:"total_bytes"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PackageLifecycleService orchestrates asynchronous manifest construction
// as a small state machine: PENDING -> BUILDING -> READY | FAILED, with
// lazy demotion of READY to EXPIRED at read time. There is no cancellation
// and no retry; an unhappy caller creates a new package row.
type PackageLifecycleService interface {
	CreatePackage(ctx context.Context, req CreatePackageRequest) (*types.ContentPackage, error)
	GetStatus(ctx context.Context, id uuid.UUID) (*PackageStatus, error)
	GetManifest(ctx context.Context, id uuid.UUID) (*types.Manifest, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

type packageLifecycleService struct {
	packageRepo distribution.PackageRepo
	builder     PackageBuilder
	bucket      BucketService
	log         *logger.Logger
	buildCtx    context.Context
}

func NewPackageLifecycleService(packageRepo distribution.PackageRepo, builder PackageBuilder, bucket BucketService, baseLog *logger.Logger) PackageLifecycleService {
	return &packageLifecycleService{
		packageRepo: packageRepo,
		builder:     builder,
		bucket:      bucket,
		log:         baseLog.With("service", "PackageLifecycleService"),
		buildCtx:    context.Background(),
	}
}

func (s *packageLifecycleService) CreatePackage(ctx context.Context, req CreatePackageRequest) (*types.ContentPackage, error) {
	if req.TenantID == uuid.Nil {
		return nil, fmt.Errorf("%w: tenant id required", pkgerrors.ErrInvalidArgument)
	}
	if req.URLExpirationHours <= 0 {
		req.URLExpirationHours = 24
	}

	pkg := &types.ContentPackage{
		ID:                 uuid.New(),
		TenantID:           req.TenantID,
		GradeBands:         req.GradeBands,
		Subjects:           req.Subjects,
		Locales:            req.Locales,
		SinceCutoff:        req.SinceCutoff,
		URLExpirationHours: req.URLExpirationHours,
		State:              types.PackageStatePending,
	}
	if err := s.packageRepo.Create(ctx, nil, pkg); err != nil {
		return nil, fmt.Errorf("create package row: %w", err)
	}

	// Fire and forget: the creation call returns as soon as the row is
	// PENDING; the build communicates only through state transitions. Two
	// identical concurrent requests get two rows and two builds.
	go s.runBuild(pkg.ID)

	return pkg, nil
}

func (s *packageLifecycleService) runBuild(id uuid.UUID) {
	ctx := s.buildCtx
	log := s.log.With("package_id", id)

	defer func() {
		if r := recover(); r != nil {
			log.Error("package build panic", "panic", r)
			s.markFailed(ctx, id, fmt.Sprintf("build panic: %v", r))
		}
	}()

	pkg, err := s.packageRepo.GetByID(ctx, nil, id)
	if err != nil || pkg == nil {
		log.Error("package row load failed before build", "error", err)
		return
	}

	if err := s.packageRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"state": types.PackageStateBuilding,
	}); err != nil {
		log.Error("transition to building failed", "error", err)
		return
	}

	manifest, err := s.builder.Build(ctx, pkg)
	if err != nil {
		log.Warn("package build failed", "error", err)
		s.markFailed(ctx, id, err.Error())
		return
	}

	manifestURL, err := s.bucket.SignedURL(ManifestKey(id), time.Duration(pkg.URLExpirationHours)*time.Hour)
	if err != nil {
		log.Warn("manifest url signing failed", "error", err)
		s.markFailed(ctx, id, err.Error())
		return
	}

	if err := s.packageRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"state":        types.PackageStateReady,
		"manifest_key": ManifestKey(id),
		"manifest_url": manifestURL,
		"total_items":  manifest.TotalItems,
		"total_bytes":  manifest.TotalBytes,
		"expires_at":   manifest.ExpiresAt,
	}); err != nil {
		log.Error("transition to ready failed", "error", err)
		return
	}
	log.Info("package build complete", "total_items", manifest.TotalItems, "total_bytes", manifest.TotalBytes)
}

func (s *packageLifecycleService) markFailed(ctx context.Context, id uuid.UUID, msg string) {
	if err := s.packageRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"state":         types.PackageStateFailed,
		"error_message": msg,
	}); err != nil {
		s.log.Error("transition to failed failed", "package_id", id, "error", err)
	}
}

func (s *packageLifecycleService) GetStatus(ctx context.Context, id uuid.UUID) (*PackageStatus, error) {
	pkg, err := s.loadAuthorized(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg = s.demoteIfExpired(ctx, pkg)

	return &PackageStatus{
		PackageID:    pkg.ID,
		Status:       pkg.State,
		ManifestURL:  pkg.ManifestURL,
		TotalItems:   pkg.TotalItems,
		TotalBytes:   pkg.TotalBytes,
		ErrorMessage: pkg.ErrorMessage,
		ExpiresAt:    pkg.ExpiresAt,
		CreatedAt:    pkg.CreatedAt,
	}, nil
}

func (s *packageLifecycleService) GetManifest(ctx context.Context, id uuid.UUID) (*types.Manifest, error) {
	pkg, err := s.loadAuthorized(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg = s.demoteIfExpired(ctx, pkg)
	if pkg.State != types.PackageStateReady {
		return nil, fmt.Errorf("%w: package is %s, manifest requires ready", pkgerrors.ErrInvalidState, pkg.State)
	}

	var manifest types.Manifest
	if err := s.bucket.DownloadJSON(ctx, pkg.ManifestKey, &manifest); err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return &manifest, nil
}

func (s *packageLifecycleService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	pkg, err := s.loadAuthorized(ctx, id)
	if err != nil {
		return err
	}
	if pkg.ManifestKey != "" {
		if err := s.bucket.Delete(ctx, pkg.ManifestKey); err != nil {
			// The row is the source of truth; a dangling manifest object
			// is only storage garbage.
			s.log.Warn("manifest object delete failed", "package_id", id, "error", err)
		}
	}
	return s.packageRepo.DeleteByID(ctx, nil, id)
}

// demoteIfExpired performs the lazy EXPIRED transition at read time.
// Nothing sweeps packages in the background.
func (s *packageLifecycleService) demoteIfExpired(ctx context.Context, pkg *types.ContentPackage) *types.ContentPackage {
	if !pkg.ExpiredAt(time.Now().UTC()) {
		return pkg
	}
	if err := s.packageRepo.UpdateFields(ctx, nil, pkg.ID, map[string]interface{}{
		"state": types.PackageStateExpired,
	}); err != nil {
		s.log.Warn("lazy expiration update failed", "package_id", pkg.ID, "error", err)
	}
	pkg.State = types.PackageStateExpired
	return pkg
}

func (s *packageLifecycleService) loadAuthorized(ctx context.Context, id uuid.UUID) (*types.ContentPackage, error) {
	pkg, err := s.packageRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if pkg == nil {
		return nil, fmt.Errorf("%w: package %s", pkgerrors.ErrNotFound, id)
	}
	if tc := ctxutil.GetTenantContext(ctx); tc != nil && tc.TenantID != pkg.TenantID {
		return nil, fmt.Errorf("%w: package belongs to another tenant", pkgerrors.ErrAccessDenied)
	}
	return pkg, nil
}
