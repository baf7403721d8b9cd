package memory

import (
	"context"

	"embedding-sync-worker/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SyncStatusRepository is the in-process fallback used when no Redis URL is
// configured. Entries never expire; the worker overwrites them every cycle.
type SyncStatusRepository struct {
	cache *cache.Cache
}

func NewSyncStatusRepository() *SyncStatusRepository {
	return &SyncStatusRepository{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (r *SyncStatusRepository) Save(_ context.Context, status *contract.SyncStatus) error {
	snapshot := *status
	r.cache.Set(status.Mode, &snapshot, cache.NoExpiration)
	return nil
}

func (r *SyncStatusRepository) Get(_ context.Context, mode string) (*contract.SyncStatus, error) {
	if x, found := r.cache.Get(mode); found {
		snapshot := *x.(*contract.SyncStatus)
		return &snapshot, nil
	}
	return nil, nil
}
