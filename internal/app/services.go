package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/brightfold/content-backend/internal/pkg/logger"
	"github.com/brightfold/content-backend/internal/services"
)

type Services struct {
	Resolver  *services.LocaleResolver
	Content   services.ContentResolutionService
	Search    services.SearchService
	Selector  services.ContentSelector
	Delta     services.DeltaTracker
	Catalog   services.CatalogService
	Builder   services.PackageBuilder
	Lifecycle services.PackageLifecycleService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	resolver := services.NewLocaleResolver(cfg.DefaultLocale)

	selectorCfg, err := services.LoadSelectorConfig(cfg.SelectorConfigPath)
	if err != nil {
		return Services{}, fmt.Errorf("load selector config: %w", err)
	}

	content := services.NewContentResolutionService(repos.Content, resolver, log)
	search := services.NewCatalogSearchService(repos.Content, log)
	selector := services.NewContentSelector(search, clients.RecentActivity, selectorCfg, log)
	delta := services.NewDeltaTracker(repos.ChangeRecord, resolver, log)
	catalog := services.NewCatalogService(db, repos.Content, delta, resolver, log)
	builder := services.NewPackageBuilder(repos.Content, clients.Bucket, resolver, log)
	lifecycle := services.NewPackageLifecycleService(repos.Package, builder, clients.Bucket, log)

	return Services{
		Resolver:  resolver,
		Content:   content,
		Search:    search,
		Selector:  selector,
		Delta:     delta,
		Catalog:   catalog,
		Builder:   builder,
		Lifecycle: lifecycle,
	}, nil
}
