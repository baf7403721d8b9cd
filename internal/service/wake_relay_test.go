package service

import (
	"context"
	"testing"
	"time"

	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWakeRelay_CoalescesHints(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	relay := NewWakeRelay(pubSub, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wake, err := relay.Listen(ctx)
	require.NoError(t, err)

	hint := events.BaseEvent{Type: events.ProductChanged, Data: map[string]interface{}{"product_id": 10}, OccurredAt: time.Now()}
	for i := 0; i < 3; i++ {
		require.NoError(t, relay.HandleEvent(ctx, hint))
	}

	select {
	case <-wake:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a wake-up")
	}

	// at most one extra wake-up can be buffered
	drained := 0
	for {
		select {
		case <-wake:
			drained++
			continue
		case <-time.After(100 * time.Millisecond):
		}
		break
	}
	assert.LessOrEqual(t, drained, 1)
}
