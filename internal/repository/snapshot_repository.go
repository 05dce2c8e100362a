package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/unmdp-fi/campus-records-api/pkg/errors"
)

// cacheMetrics receives hit/miss and write timings for snapshot access.
type cacheMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
}

// SnapshotRepository keeps advisory full-list snapshots in Redis. Snapshots
// only shorten list reads; validation and integrity checks always go to the
// database.
type SnapshotRepository struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
	metrics cacheMetrics
}

// NewSnapshotRepository constructs a snapshot repository. A nil client
// disables every operation; a nil metrics sink disables instrumentation.
func NewSnapshotRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger, metrics cacheMetrics) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{client: client, ttl: ttl, logger: logger, metrics: metrics}
}

func snapshotKey(entity string) string {
	return "records:" + entity + ":all"
}

// Get retrieves and unmarshals the snapshot for an entity into dest.
func (r *SnapshotRepository) Get(ctx context.Context, entity string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	start := time.Now()
	raw, err := r.client.Get(ctx, snapshotKey(entity)).Bytes()
	if r.metrics != nil {
		r.metrics.RecordCacheOperation(err == nil, time.Since(start))
	}
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", snapshotKey(entity), err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal snapshot for %s: %w", entity, err)
	}

	return nil
}

// Set stores the full list for an entity with the configured TTL.
func (r *SnapshotRepository) Set(ctx context.Context, entity string, value interface{}) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", entity, err)
	}

	start := time.Now()
	err = r.client.Set(ctx, snapshotKey(entity), payload, r.ttl).Err()
	if r.metrics != nil {
		r.metrics.ObserveCacheWrite(time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("redis set %s: %w", snapshotKey(entity), err)
	}

	return nil
}

// Invalidate drops the snapshot for an entity after a mutation.
func (r *SnapshotRepository) Invalidate(ctx context.Context, entity string) {
	if r.client == nil {
		return
	}

	if err := r.client.Del(ctx, snapshotKey(entity)).Err(); err != nil {
		r.logger.Warn("snapshot invalidation failed", zap.String("entity", entity), zap.Error(err))
	}
}

// Close releases the underlying Redis connection if present.
func (r *SnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
