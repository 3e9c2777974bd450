package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"execdesk/internal/backend"
	"execdesk/internal/common/cache"
	"execdesk/pkg/errors"
	"execdesk/pkg/utils/logger"

	"go.uber.org/zap"
)

const snapshotKeyPrefix = "execdesk:view:"

// Snapshot is the fetched history of one list-view activation.
type Snapshot struct {
	ViewID    string               `json:"view_id"`
	FetchedAt time.Time            `json:"fetched_at"`
	Items     []backend.Submission `json:"items"`
}

// SnapshotRepository keeps view snapshots in a local LRU and, when configured, in Redis
// so that any instance behind a load balancer can serve page changes.
type SnapshotRepository struct {
	local        *cache.LRUCache[Snapshot]
	redis        cache.BasicOps
	ttl          time.Duration
	redisTimeout time.Duration
}

// NewSnapshotRepository builds the repository; redis may be nil for a memory-only setup.
func NewSnapshotRepository(local *cache.LRUCache[Snapshot], redis cache.BasicOps, ttl, redisTimeout time.Duration) *SnapshotRepository {
	if redisTimeout <= 0 {
		redisTimeout = time.Second
	}
	return &SnapshotRepository{
		local:        local,
		redis:        redis,
		ttl:          ttl,
		redisTimeout: redisTimeout,
	}
}

// Save stores snap under its view id.
func (r *SnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	if snap.ViewID == "" {
		return errors.New(errors.InvalidParams).WithMessage("snapshot view id is empty")
	}
	if r.local != nil {
		r.local.Set(snap.ViewID, snap, r.ttl)
	}
	if r.redis == nil {
		return nil
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrapf(err, errors.CacheSetFailed, "marshal snapshot failed: %v", err)
	}
	ctxCache, cancel := context.WithTimeout(ctx, r.redisTimeout)
	defer cancel()
	if err := r.redis.Set(ctxCache, snapshotKey(snap.ViewID), string(data), r.ttl); err != nil {
		return errors.Wrap(err, errors.CacheSetFailed)
	}
	return nil
}

// Load returns the snapshot of viewID. A missing or expired view yields ViewExpired.
func (r *SnapshotRepository) Load(ctx context.Context, viewID string) (Snapshot, error) {
	if viewID == "" {
		return Snapshot{}, errors.New(errors.ViewExpired)
	}
	if r.local != nil {
		if snap, ok := r.local.Get(viewID); ok {
			return snap, nil
		}
	}
	if r.redis == nil {
		return Snapshot{}, errors.New(errors.ViewExpired)
	}

	ctxCache, cancel := context.WithTimeout(ctx, r.redisTimeout)
	defer cancel()
	raw, err := r.redis.Get(ctxCache, snapshotKey(viewID))
	if err != nil {
		return Snapshot{}, errors.Wrap(err, errors.CacheError)
	}
	if raw == "" {
		return Snapshot{}, errors.New(errors.ViewExpired)
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		logger.Warn(ctx, "drop corrupt snapshot", zap.String("view_id", viewID), zap.Error(err))
		_ = r.redis.Del(ctxCache, snapshotKey(viewID))
		return Snapshot{}, errors.New(errors.ViewExpired)
	}
	if r.ttl > 0 {
		_ = r.redis.Expire(ctxCache, snapshotKey(viewID), r.ttl)
	}
	if r.local != nil {
		r.local.Set(viewID, snap, r.ttl)
	}
	return snap, nil
}

func snapshotKey(viewID string) string {
	return fmt.Sprintf("%s%s", snapshotKeyPrefix, viewID)
}
