package tracer

import (
	"context"
	"testing"

	"embedding-sync-worker/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_DisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(false, "", "queue", logger.NewNopLogger())
	assert.NoError(t, shutdown(context.Background()))
}
