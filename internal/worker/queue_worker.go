package worker

import (
	"context"
	"errors"
	"time"

	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/repository/unitofwork"
	"embedding-sync-worker/internal/service"
	"embedding-sync-worker/pkg/metrics"
)

type QueueWorkerOptions struct {
	BatchSize    int
	PollInterval time.Duration
	OnError      config.ErrorPolicy
	RunId        string
	// Sleep defaults to ContextSleeper(nil).
	Sleep Sleeper
}

// QueueWorker drains product_embedding_queue one batch per cycle, forever.
type QueueWorker struct {
	syncService service.IEmbeddingSyncService
	uowFactory  unitofwork.RepositoryFactory
	opts        QueueWorkerOptions
	status      *statusTracker
	logger      logger.ILogger
}

func NewQueueWorker(
	syncService service.IEmbeddingSyncService,
	uowFactory unitofwork.RepositoryFactory,
	statusRepo contract.SyncStatusRepository,
	log logger.ILogger,
	opts QueueWorkerOptions,
) *QueueWorker {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 10 * time.Second
	}
	if opts.OnError == "" {
		opts.OnError = config.ErrorPolicySkip
	}
	if opts.Sleep == nil {
		opts.Sleep = ContextSleeper(nil)
	}
	return &QueueWorker{
		syncService: syncService,
		uowFactory:  uowFactory,
		opts:        opts,
		status:      newStatusTracker(statusRepo, log, opts.RunId, service.ModeQueue),
		logger:      log,
	}
}

// RunCycle syncs at most one batch of pending entries.
func (w *QueueWorker) RunCycle(ctx context.Context) (*service.SyncResult, error) {
	result, err := w.syncService.SyncBatch(ctx, service.NewQueueSource(w.opts.BatchSize))
	w.status.record(ctx, result, err)
	if err != nil {
		return nil, err
	}

	if result.Count() > 0 {
		w.logger.Info("QUEUE_WORKER", "Processed products", map[string]interface{}{
			"count":  result.Count(),
			"run_id": w.opts.RunId,
		})
	}
	w.refreshPendingGauge(ctx)
	return result, nil
}

// Run loops RunCycle and the poll sleep until ctx is cancelled. With the
// abort policy the first failed cycle ends the loop with its error.
func (w *QueueWorker) Run(ctx context.Context) error {
	w.logger.Info("QUEUE_WORKER", "Queue worker started", map[string]interface{}{
		"batch_size":    w.opts.BatchSize,
		"poll_interval": w.opts.PollInterval.String(),
		"on_error":      string(w.opts.OnError),
		"run_id":        w.opts.RunId,
	})

	for {
		if ctx.Err() != nil {
			return w.stopped()
		}

		if _, err := w.RunCycle(ctx); err != nil {
			if ctx.Err() != nil {
				return w.stopped()
			}
			if w.opts.OnError == config.ErrorPolicyAbort {
				return err
			}
			w.logger.Warn("QUEUE_WORKER", "Cycle failed, entries stay pending", map[string]interface{}{
				"error": err.Error(),
			})
		}

		if err := w.opts.Sleep(ctx, w.opts.PollInterval); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return w.stopped()
			}
			return err
		}
	}
}

func (w *QueueWorker) Status() contract.SyncStatus {
	return w.status.snapshot()
}

func (w *QueueWorker) stopped() error {
	s := w.status.snapshot()
	w.logger.Info("QUEUE_WORKER", "Queue worker stopped", map[string]interface{}{
		"total_synced":  s.TotalSynced,
		"failed_cycles": s.FailedCycles,
	})
	return nil
}

func (w *QueueWorker) refreshPendingGauge(ctx context.Context) {
	if w.uowFactory == nil {
		return
	}
	pending, err := w.uowFactory.NewUnitOfWork(ctx).EmbeddingQueueRepository().CountPending(ctx)
	if err != nil {
		w.logger.Debug("QUEUE_WORKER", "Failed to count pending entries", map[string]interface{}{"error": err.Error()})
		return
	}
	metrics.QueuePending.Set(float64(pending))
}
