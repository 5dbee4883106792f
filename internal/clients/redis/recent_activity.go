package redis

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brightfold/content-backend/internal/pkg/logger"
	"github.com/brightfold/content-backend/internal/services"
)

// recentActivityTracker keeps one sorted set per learner, scored by
// consumption time, so the lookback query is a single range read.
type recentActivityTracker struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewRecentActivityTracker(log *logger.Logger) (services.RecentActivityTracker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &recentActivityTracker{
		log: log.With("service", "RecentActivityTracker"),
		rdb: rdb,
	}, nil
}

func activityKey(learnerID uuid.UUID) string {
	return "recent_content:" + learnerID.String()
}

func (t *recentActivityTracker) RecordConsumption(ctx context.Context, learnerID, objectID uuid.UUID) error {
	now := time.Now().UTC()
	key := activityKey(learnerID)
	pipe := t.rdb.Pipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.Unix()), Member: objectID.String()})
	// Anything older than the widest supported lookback is dead weight.
	pipe.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Add(-30*24*time.Hour).Unix(), 10))
	pipe.Expire(ctx, key, 31*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record consumption: %w", err)
	}
	return nil
}

func (t *recentActivityTracker) RecentIDs(ctx context.Context, learnerID uuid.UUID, window time.Duration) (map[uuid.UUID]struct{}, error) {
	min := strconv.FormatInt(time.Now().UTC().Add(-window).Unix(), 10)
	members, err := t.rdb.ZRangeByScore(ctx, activityKey(learnerID), &goredis.ZRangeBy{
		Min: min,
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("recent ids: %w", err)
	}
	out := make(map[uuid.UUID]struct{}, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out, nil
}
