package app

import (
	"gorm.io/gorm"

	"github.com/brightfold/content-backend/internal/data/repos/catalog"
	"github.com/brightfold/content-backend/internal/data/repos/distribution"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

type Repos struct {
	Content      catalog.ContentRepo
	ChangeRecord distribution.ChangeRecordRepo
	Package      distribution.PackageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Content:      catalog.NewContentRepo(db, log),
		ChangeRecord: distribution.NewChangeRecordRepo(db, log),
		Package:      distribution.NewPackageRepo(db, log),
	}
}
