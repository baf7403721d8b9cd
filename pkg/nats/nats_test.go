package nats

import (
	"testing"
	"time"

	"embedding-sync-worker/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.EMBEDDINGS_SYNCED", Subject(events.EmbeddingsSynced))
}

func TestDecodeEvent(t *testing.T) {
	e, err := DecodeEvent("events.PRODUCT_CHANGED", []byte(`{"product_id":10,"occurred_at":"2024-05-01T10:00:00Z"}`))
	require.NoError(t, err)

	assert.Equal(t, events.ProductChanged, e.EventType())
	assert.Equal(t, float64(10), e.Payload()["product_id"])
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), e.Timestamp())

	empty, err := DecodeEvent("custom", nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", empty.EventType())
	assert.Empty(t, empty.Payload())

	_, err = DecodeEvent("events.X", []byte(`not json`))
	assert.Error(t, err)
}
