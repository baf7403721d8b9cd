package memory

import (
	"context"
	"testing"
	"time"

	"embedding-sync-worker/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStatusRepository(t *testing.T) {
	repo := NewSyncStatusRepository()
	ctx := context.Background()

	status, err := repo.Get(ctx, "queue")
	require.NoError(t, err)
	assert.Nil(t, status)

	saved := &contract.SyncStatus{Mode: "queue", LastBatch: 2, TotalSynced: 2, LastCycleAt: time.Now()}
	require.NoError(t, repo.Save(ctx, saved))

	// later mutations of the caller's struct must not leak into the store
	saved.TotalSynced = 99

	status, err = repo.Get(ctx, "queue")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, int64(2), status.TotalSynced)
	assert.Equal(t, 2, status.LastBatch)

	other, err := repo.Get(ctx, "backfill")
	require.NoError(t, err)
	assert.Nil(t, other)
}
