package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"embedding-sync-worker/internal/bootstrap"
	"embedding-sync-worker/internal/config"
	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/internal/server"
	"embedding-sync-worker/internal/service"
	"embedding-sync-worker/internal/tracer"
	"embedding-sync-worker/internal/worker"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp() *cli.App {
	sharedFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Products per batch (overrides BATCH_SIZE)",
		},
		&cli.StringFlag{
			Name:  "on-error",
			Usage: "Failure policy: skip or abort (overrides WORKER_ON_ERROR)",
		},
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (overrides EMBEDDING_PROVIDER)",
		},
		&cli.StringFlag{
			Name:  "vector-format",
			Usage: "Stored vector format: json or pgvector (overrides VECTOR_STORAGE_FORMAT)",
		},
	}

	return &cli.App{
		Name:  "embedsync",
		Usage: "Keep product vector embeddings in sync with the catalog",
		// exit codes are applied in main so commands stay testable
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:   "worker",
				Usage:  "Drain product_embedding_queue forever, one batch per poll interval",
				Action: workerCommand,
				Flags: append([]cli.Flag{
					&cli.DurationFlag{
						Name:  "poll-interval",
						Usage: "Sleep between cycles (overrides QUEUE_POLL_INTERVAL)",
					},
				}, sharedFlags...),
			},
			{
				Name:   "backfill",
				Usage:  "Recompute embeddings for every non-deleted product once",
				Action: backfillCommand,
				Flags: append([]cli.Flag{
					&cli.DurationFlag{
						Name:  "pause",
						Usage: "Pause between batches (overrides BACKFILL_BATCH_PAUSE)",
					},
				}, sharedFlags...),
			},
		},
	}
}

// applyFlags overrides environment settings with explicitly set flags.
func applyFlags(c *cli.Context, cfg *config.Config) error {
	if c.IsSet("batch-size") {
		if c.Int("batch-size") < 1 {
			return fmt.Errorf("--batch-size must be at least 1")
		}
		cfg.Worker.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("poll-interval") {
		cfg.Worker.PollInterval = c.Duration("poll-interval")
	}
	if c.IsSet("pause") {
		cfg.Worker.BackfillBatchPause = c.Duration("pause")
	}
	if c.IsSet("on-error") {
		policy := config.ErrorPolicy(c.String("on-error"))
		if policy != config.ErrorPolicySkip && policy != config.ErrorPolicyAbort {
			return fmt.Errorf("--on-error must be skip or abort, got %q", policy)
		}
		cfg.Worker.OnError = policy
	}
	if c.IsSet("provider") {
		cfg.Ai.EmbeddingProvider = c.String("provider")
	}
	if c.IsSet("vector-format") {
		cfg.Worker.VectorFormat = config.VectorFormat(c.String("vector-format"))
	}
	return nil
}

func setup(c *cli.Context) (*config.Config, logger.ILogger, error) {
	cfg := config.Load()
	if err := applyFlags(c, cfg); err != nil {
		return nil, nil, cli.Exit(err.Error(), 2)
	}
	log := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	return cfg, log, nil
}

func workerCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, service.ModeQueue, log)
	defer shutdownTracer(context.Background())

	container, err := bootstrap.NewContainer(cfg, service.ModeQueue, log)
	if err != nil {
		log.Error("MAIN", "Failed to start queue worker", map[string]interface{}{"error": err.Error()})
		return cli.Exit(err.Error(), 1)
	}
	defer container.Close()

	srv := container.NewServer()
	startServer(srv, log)
	defer stopServer(srv, log)

	w := container.NewQueueWorker(worker.ContextSleeper(container.WakeChannel(ctx)))
	if err := w.Run(ctx); err != nil {
		log.Error("MAIN", "Queue worker aborted", map[string]interface{}{"error": err.Error()})
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

func backfillCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := setup(c)
	if err != nil {
		return err
	}

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, cfg.App.OtelEndpoint, service.ModeBackfill, log)
	defer shutdownTracer(context.Background())

	container, err := bootstrap.NewContainer(cfg, service.ModeBackfill, log)
	if err != nil {
		if errors.Is(err, config.ErrMissingDatabaseConfig) {
			log.Error("MAIN", "Missing database configuration", map[string]interface{}{"error": err.Error()})
		}
		return cli.Exit(err.Error(), 1)
	}
	defer container.Close()

	srv := container.NewServer()
	startServer(srv, log)
	defer stopServer(srv, log)

	if _, err := container.NewBackfillRunner().Run(ctx); err != nil {
		log.Error("MAIN", "Backfill failed", map[string]interface{}{"error": err.Error()})
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

func startServer(srv *server.Server, log logger.ILogger) {
	if srv == nil {
		return
	}
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("MAIN", "Ops server stopped", map[string]interface{}{"error": err.Error()})
		}
	}()
}

func stopServer(srv *server.Server, log logger.ILogger) {
	if srv == nil {
		return
	}
	if err := srv.Shutdown(5 * time.Second); err != nil {
		log.Warn("MAIN", "Ops server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
