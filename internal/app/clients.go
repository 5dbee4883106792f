package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/brightfold/content-backend/internal/clients/redis"
	"github.com/brightfold/content-backend/internal/pkg/logger"
	"github.com/brightfold/content-backend/internal/services"
)

type Clients struct {
	Bucket         services.BucketService
	RecentActivity services.RecentActivityTracker
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := services.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init bucket client: %w", err)
	}

	// Redis is optional: without it the selector degrades to explicit
	// exclusions only.
	var tracker services.RecentActivityTracker
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		t, err := redis.NewRecentActivityTracker(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init recent activity tracker: %w", err)
		}
		tracker = t
	}

	return Clients{
		Bucket:         bucket,
		RecentActivity: tracker,
	}, nil
}
