package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/repository/unitofwork"
	"embedding-sync-worker/internal/service"

	"github.com/fatih/color"
)

type BackfillOptions struct {
	BatchSize  int
	BatchPause time.Duration
	OnError    config.ErrorPolicy
	RunId      string
	Sleep      Sleeper
	// Out receives the completion banner; defaults to stdout.
	Out io.Writer
}

type BackfillSummary struct {
	RunId         string
	Products      int
	Batches       int
	Synced        int
	FailedBatches int
	Duration      time.Duration
}

// BackfillRunner recomputes the embedding of every non-deleted product once.
type BackfillRunner struct {
	syncService service.IEmbeddingSyncService
	uowFactory  unitofwork.RepositoryFactory
	opts        BackfillOptions
	status      *statusTracker
	logger      logger.ILogger
}

func NewBackfillRunner(
	syncService service.IEmbeddingSyncService,
	uowFactory unitofwork.RepositoryFactory,
	statusRepo contract.SyncStatusRepository,
	log logger.ILogger,
	opts BackfillOptions,
) *BackfillRunner {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 32
	}
	if opts.BatchPause < 0 {
		opts.BatchPause = 0
	}
	if opts.OnError == "" {
		opts.OnError = config.ErrorPolicyAbort
	}
	if opts.Sleep == nil {
		opts.Sleep = ContextSleeper(nil)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &BackfillRunner{
		syncService: syncService,
		uowFactory:  uowFactory,
		opts:        opts,
		status:      newStatusTracker(statusRepo, log, opts.RunId, service.ModeBackfill),
		logger:      log,
	}
}

func (r *BackfillRunner) Run(ctx context.Context) (*BackfillSummary, error) {
	started := time.Now()
	summary := &BackfillSummary{RunId: r.opts.RunId}

	productRepo := r.uowFactory.NewUnitOfWork(ctx).ProductRepository()
	active, err := productRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count products: %w", service.ErrDatabase, err)
	}
	r.logger.Info("BACKFILL", fmt.Sprintf("Found %d products", active), map[string]interface{}{
		"count":  active,
		"run_id": r.opts.RunId,
	})

	var candidates []*entity.EmbeddingCandidate
	if active > 0 {
		candidates, err = productRepo.FindActiveCandidates(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: load products: %w", service.ErrDatabase, err)
		}
	}
	summary.Products = len(candidates)

	batches := service.Partition(candidates, r.opts.BatchSize)
	summary.Batches = len(batches)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		// Each partition is attempted exactly once, whatever the outcome.
		result, err := r.syncService.SyncBatch(ctx, service.NewBatchSource(batch))
		r.status.record(ctx, result, err)
		if err != nil {
			if r.opts.OnError == config.ErrorPolicyAbort || ctx.Err() != nil {
				return summary, fmt.Errorf("batch %d/%d: %w", i+1, summary.Batches, err)
			}
			summary.FailedBatches++
			r.logger.Warn("BACKFILL", "Batch failed, continuing", map[string]interface{}{
				"batch": i + 1,
				"of":    summary.Batches,
				"error": err.Error(),
			})
		} else {
			summary.Synced += result.Count()
			r.logger.Info("BACKFILL", "Batch synced", map[string]interface{}{
				"batch":   i + 1,
				"of":      summary.Batches,
				"count":   result.Count(),
				"elapsed": time.Since(started).Round(time.Millisecond).String(),
			})
		}

		if i < len(batches)-1 && r.opts.BatchPause > 0 {
			if err := r.opts.Sleep(ctx, r.opts.BatchPause); err != nil {
				return summary, err
			}
		}
	}

	summary.Duration = time.Since(started)
	r.printSummary(summary)
	return summary, nil
}

func (r *BackfillRunner) printSummary(s *BackfillSummary) {
	headline := color.New(color.FgGreen, color.Bold)
	if s.FailedBatches > 0 {
		headline = color.New(color.FgYellow, color.Bold)
	}
	headline.Fprintln(r.opts.Out, "Backfill complete")
	fmt.Fprintf(r.opts.Out, "  products: %d\n  batches:  %d\n  synced:   %d\n  failed:   %d\n  duration: %s\n",
		s.Products, s.Batches, s.Synced, s.FailedBatches, s.Duration.Round(time.Millisecond))
}
