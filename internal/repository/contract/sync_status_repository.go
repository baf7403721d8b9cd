package contract

import (
	"context"
	"time"
)

// SyncStatus is the outcome of the last batch a worker ran.
type SyncStatus struct {
	RunId        string    `json:"run_id"`
	Mode         string    `json:"mode"`
	LastCycleAt  time.Time `json:"last_cycle_at"`
	LastBatch    int       `json:"last_batch"`
	TotalSynced  int64     `json:"total_synced"`
	FailedCycles int64     `json:"failed_cycles"`
	LastError    string    `json:"last_error,omitempty"`
}

type SyncStatusRepository interface {
	Save(ctx context.Context, status *SyncStatus) error
	// Get returns nil when the mode has not reported yet.
	Get(ctx context.Context, mode string) (*SyncStatus, error)
}
