package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brightfold/content-backend/internal/http"
	httpH "github.com/brightfold/content-backend/internal/http/handlers"
	httpMW "github.com/brightfold/content-backend/internal/http/middleware"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

type Middleware struct {
	Tenant *httpMW.TenantMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Content *httpH.ContentHandler
	Catalog *httpH.CatalogHandler
	Plan    *httpH.PlanHandler
	Package *httpH.PackageHandler
	Delta   *httpH.DeltaHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Content: httpH.NewContentHandler(svcs.Content),
		Catalog: httpH.NewCatalogHandler(svcs.Catalog),
		Plan:    httpH.NewPlanHandler(svcs.Selector),
		Package: httpH.NewPackageHandler(svcs.Lifecycle),
		Delta:   httpH.NewDeltaHandler(svcs.Delta),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Tenant: httpMW.NewTenantMiddleware(log, cfg.JWTSecretKey),
	}
}

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		TenantMiddleware: middleware.Tenant,
		AllowedOrigins:   cfg.AllowedOrigins,
		HealthHandler:    handlers.Health,
		ContentHandler:   handlers.Content,
		CatalogHandler:   handlers.Catalog,
		PlanHandler:      handlers.Plan,
		PackageHandler:   handlers.Package,
		DeltaHandler:     handlers.Delta,
	})
}
