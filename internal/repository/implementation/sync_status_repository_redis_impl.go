package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"embedding-sync-worker/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

const syncStatusKeyPrefix = "embedding_sync:status:"

// SyncStatusRepositoryRedis keeps the last batch outcome per mode in Redis
// so the ops endpoint of any replica, or a dashboard, can read it.
type SyncStatusRepositoryRedis struct {
	rdb *redis.Client
}

func NewSyncStatusRepositoryRedis(rdb *redis.Client) contract.SyncStatusRepository {
	return &SyncStatusRepositoryRedis{rdb: rdb}
}

func (r *SyncStatusRepositoryRedis) Save(ctx context.Context, status *contract.SyncStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	if err := r.rdb.Set(ctx, syncStatusKeyPrefix+status.Mode, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save sync status: %w", err)
	}
	return nil
}

func (r *SyncStatusRepositoryRedis) Get(ctx context.Context, mode string) (*contract.SyncStatus, error) {
	data, err := r.rdb.Get(ctx, syncStatusKeyPrefix+mode).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var status contract.SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
