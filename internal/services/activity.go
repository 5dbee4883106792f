package services

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RecentActivityTracker supplies the set of content a learner consumed
// within a lookback window, so the selector can avoid repeats.
type RecentActivityTracker interface {
	RecordConsumption(ctx context.Context, learnerID, objectID uuid.UUID) error
	RecentIDs(ctx context.Context, learnerID uuid.UUID, window time.Duration) (map[uuid.UUID]struct{}, error)
}
