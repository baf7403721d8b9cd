package worker

import (
	"context"
	"time"

	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/service"
)

// statusTracker accumulates per-run counters and persists a snapshot after
// every batch. Persistence failures are logged, never fatal.
type statusTracker struct {
	repo   contract.SyncStatusRepository
	logger logger.ILogger
	status contract.SyncStatus
}

func newStatusTracker(repo contract.SyncStatusRepository, log logger.ILogger, runId, mode string) *statusTracker {
	return &statusTracker{
		repo:   repo,
		logger: log,
		status: contract.SyncStatus{RunId: runId, Mode: mode},
	}
}

func (t *statusTracker) record(ctx context.Context, result *service.SyncResult, err error) {
	t.status.LastCycleAt = time.Now().UTC()
	if err != nil {
		t.status.FailedCycles++
		t.status.LastError = err.Error()
		t.status.LastBatch = 0
	} else {
		t.status.LastError = ""
		t.status.LastBatch = result.Count()
		t.status.TotalSynced += int64(result.Count())
	}

	if t.repo == nil {
		return
	}
	// a cancelled run still reports its last outcome
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	snapshot := t.status
	if saveErr := t.repo.Save(saveCtx, &snapshot); saveErr != nil {
		t.logger.Warn("SYNC_STATUS", "Failed to save sync status", map[string]interface{}{
			"mode":  t.status.Mode,
			"error": saveErr.Error(),
		})
	}
}

func (t *statusTracker) snapshot() contract.SyncStatus {
	return t.status
}
