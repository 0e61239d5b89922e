package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ SnapshotStore = (*redisStore)(nil)

const snapshotKeyPrefix = "studio:workspace:"

type redisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore создает хранилище снимков в Redis.
func NewRedisStore(client *redis.Client, logger *zap.Logger) SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisStore{
		client: client,
		logger: logger.Named("RedisSnapshotStore"),
	}
}

func snapshotKey(workspaceID string) string {
	return snapshotKeyPrefix + workspaceID
}

func (r *redisStore) Load(ctx context.Context, workspaceID string) (*Snapshot, error) {
	key := snapshotKey(workspaceID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Workspace snapshot not found", zap.String("key", key))
			return nil, ErrSnapshotNotFound
		}
		r.logger.Error("Failed to get workspace snapshot from redis", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get workspace snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Error("Failed to decode workspace snapshot", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to decode workspace snapshot: %w", err)
	}
	return &snap, nil
}

func (r *redisStore) Save(ctx context.Context, snap *Snapshot, ttl time.Duration) error {
	key := snapshotKey(snap.WorkspaceID)
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode workspace snapshot: %w", err)
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to save workspace snapshot to redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to save workspace snapshot: %w", err)
	}
	r.logger.Debug("Workspace snapshot saved", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *redisStore) Delete(ctx context.Context, workspaceID string) error {
	key := snapshotKey(workspaceID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete workspace snapshot from redis", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete workspace snapshot: %w", err)
	}
	return nil
}
