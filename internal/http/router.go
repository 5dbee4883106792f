package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/brightfold/content-backend/internal/http/handlers"
	httpMW "github.com/brightfold/content-backend/internal/http/middleware"
)

type RouterConfig struct {
	TenantMiddleware *httpMW.TenantMiddleware
	AllowedOrigins   []string

	ContentHandler *httpH.ContentHandler
	CatalogHandler *httpH.CatalogHandler
	PlanHandler    *httpH.PlanHandler
	PackageHandler *httpH.PackageHandler
	DeltaHandler   *httpH.DeltaHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.TenantMiddleware != nil {
		api.Use(cfg.TenantMiddleware.RequireTenant())
	}

	if cfg.ContentHandler != nil {
		api.GET("/content", cfg.ContentHandler.ResolveList)
		api.GET("/content/:slug", cfg.ContentHandler.Resolve)
	}

	if cfg.CatalogHandler != nil {
		api.POST("/versions/:id/publish", cfg.CatalogHandler.PublishVersion)
		api.POST("/versions/:id/retire", cfg.CatalogHandler.RetireVersion)
	}

	if cfg.PlanHandler != nil {
		api.POST("/plans/select", cfg.PlanHandler.SelectForPlan)
	}

	if cfg.PackageHandler != nil {
		api.POST("/packages", cfg.PackageHandler.CreatePackage)
		api.GET("/packages/:id", cfg.PackageHandler.GetStatus)
		api.GET("/packages/:id/manifest", cfg.PackageHandler.GetManifest)
		api.DELETE("/packages/:id", cfg.PackageHandler.DeletePackage)
	}

	if cfg.DeltaHandler != nil {
		api.GET("/delta", cfg.DeltaHandler.GetDelta)
	}

	return r
}
