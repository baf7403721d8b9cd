package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"BATCH_SIZE", "QUEUE_POLL_INTERVAL", "BACKFILL_BATCH_PAUSE", "WORKER_ON_ERROR", "VECTOR_STORAGE_FORMAT", "EMBEDDING_PROVIDER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 32, cfg.Worker.BatchSize)
	assert.Equal(t, 10*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, time.Second, cfg.Worker.BackfillBatchPause)
	assert.Equal(t, ErrorPolicy(""), cfg.Worker.OnError)
	assert.Equal(t, VectorFormatJSON, cfg.Worker.VectorFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BATCH_SIZE", "8")
	t.Setenv("QUEUE_POLL_INTERVAL", "250ms")
	t.Setenv("BACKFILL_BATCH_PAUSE", "1.5")
	t.Setenv("WORKER_ON_ERROR", "abort")
	t.Setenv("VECTOR_STORAGE_FORMAT", "pgvector")

	cfg := Load()

	assert.Equal(t, 8, cfg.Worker.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Worker.PollInterval)
	assert.Equal(t, 1500*time.Millisecond, cfg.Worker.BackfillBatchPause)
	assert.Equal(t, ErrorPolicyAbort, cfg.Worker.OnError)
	assert.Equal(t, VectorFormatPgvector, cfg.Worker.VectorFormat)
}

func TestDatabaseConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         DatabaseConfig
		wantMissing []string
	}{
		{
			name: "complete",
			cfg:  DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "shop"},
		},
		{
			name:        "everything missing",
			cfg:         DatabaseConfig{},
			wantMissing: []string{"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME"},
		},
		{
			name:        "password and port missing",
			cfg:         DatabaseConfig{User: "u", Host: "h", Name: "shop"},
			wantMissing: []string{"DB_PASSWORD", "DB_PORT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMissing, tt.cfg.MissingParameters())

			err := tt.cfg.Validate()
			if tt.wantMissing == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingDatabaseConfig))
			for _, name := range tt.wantMissing {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestPortOrDefault(t *testing.T) {
	assert.Equal(t, "5432", DatabaseConfig{}.PortOrDefault())
	assert.Equal(t, "6543", DatabaseConfig{Port: "6543"}.PortOrDefault())
}

func TestResolveErrorPolicy(t *testing.T) {
	assert.Equal(t, ErrorPolicySkip, WorkerConfig{}.ResolveErrorPolicy(ErrorPolicySkip))
	assert.Equal(t, ErrorPolicyAbort, WorkerConfig{}.ResolveErrorPolicy(ErrorPolicyAbort))
	assert.Equal(t, ErrorPolicyAbort, WorkerConfig{OnError: ErrorPolicyAbort}.ResolveErrorPolicy(ErrorPolicySkip))
	assert.Equal(t, ErrorPolicySkip, WorkerConfig{OnError: "bogus"}.ResolveErrorPolicy(ErrorPolicySkip))
}
