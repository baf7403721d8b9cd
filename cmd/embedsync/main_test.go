package main

import (
	"testing"
	"time"

	"embedding-sync-worker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func clearDatabaseEnv(t *testing.T) {
	for _, key := range []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_FILE_PATH", "")
}

func TestBackfillFailsOnMissingDatabaseConfig(t *testing.T) {
	clearDatabaseEnv(t)
	t.Setenv("DB_USER", "app")

	err := newApp().Run([]string{"embedsync", "backfill"})
	require.Error(t, err)

	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 1, exit.ExitCode())
	assert.Contains(t, err.Error(), "DB_PASSWORD, DB_HOST, DB_PORT, DB_NAME")
}

func TestInvalidFlagValues(t *testing.T) {
	clearDatabaseEnv(t)

	err := newApp().Run([]string{"embedsync", "worker", "--on-error", "retry"})
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.ExitCode())

	err = newApp().Run([]string{"embedsync", "backfill", "--batch-size", "0"})
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.ExitCode())
}

func TestApplyFlags(t *testing.T) {
	cfg := &config.Config{Worker: config.WorkerConfig{BatchSize: 32, PollInterval: 10 * time.Second}}

	app := &cli.App{
		Name: "embedsync",
		Commands: []*cli.Command{{
			Name: "worker",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "batch-size"},
				&cli.DurationFlag{Name: "poll-interval"},
				&cli.StringFlag{Name: "on-error"},
				&cli.StringFlag{Name: "provider"},
				&cli.StringFlag{Name: "vector-format"},
			},
			Action: func(c *cli.Context) error { return applyFlags(c, cfg) },
		}},
	}

	require.NoError(t, app.Run([]string{"embedsync", "worker", "--batch-size", "8", "--poll-interval", "2s", "--on-error", "abort", "--vector-format", "pgvector"}))
	assert.Equal(t, 8, cfg.Worker.BatchSize)
	assert.Equal(t, 2*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, config.ErrorPolicyAbort, cfg.Worker.OnError)
	assert.Equal(t, config.VectorFormatPgvector, cfg.Worker.VectorFormat)
	assert.Empty(t, cfg.Ai.EmbeddingProvider, "unset flags leave config alone")
}
