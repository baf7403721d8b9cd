package service

import (
	"context"
	"encoding/json"

	"embedding-sync-worker/internal/pkg/logger"
	"embedding-sync-worker/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WakeTopic is the in-process topic product change hints are relayed on.
const WakeTopic = "embedding_sync.wake"

// WakeRelay turns external product change events into wake-ups for the
// queue worker. Events go through an in-process watermill channel; any
// number of hints between two cycles collapse into a single wake-up.
type WakeRelay struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewWakeRelay(pubSub *gochannel.GoChannel, log logger.ILogger) *WakeRelay {
	return &WakeRelay{pubSub: pubSub, logger: log}
}

// HandleEvent matches the NATS subscriber handler signature.
func (r *WakeRelay) HandleEvent(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	return r.pubSub.Publish(WakeTopic, msg)
}

// Listen returns a channel that receives at most one pending wake-up at a
// time. It closes when ctx is done.
func (r *WakeRelay) Listen(ctx context.Context) (<-chan struct{}, error) {
	messages, err := r.pubSub.Subscribe(ctx, WakeTopic)
	if err != nil {
		return nil, err
	}

	wake := make(chan struct{}, 1)
	go func() {
		defer close(wake)
		for msg := range messages {
			select {
			case wake <- struct{}{}:
				r.logger.Debug("WAKE_RELAY", "Queue worker woken", map[string]interface{}{
					"event_type": msg.Metadata.Get("event_type"),
				})
			default:
			}
			msg.Ack()
		}
	}()
	return wake, nil
}
