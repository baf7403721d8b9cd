package events

import "time"

const (
	// EmbeddingsSynced is emitted after a batch of product embeddings commits.
	EmbeddingsSynced = "EMBEDDINGS_SYNCED"
	// ProductChanged is consumed as a hint that the queue has new entries.
	ProductChanged = "PRODUCT_CHANGED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "EMBEDDINGS_SYNCED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewEmbeddingsSyncedEvent describes one committed batch.
func NewEmbeddingsSyncedEvent(runId, mode string, productIds []int64, provider string) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: EmbeddingsSynced,
		Data: map[string]interface{}{
			"run_id":      runId,
			"mode":        mode,
			"product_ids": productIds,
			"count":       len(productIds),
			"provider":    provider,
			"occurred_at": now.Format(time.RFC3339),
		},
		OccurredAt: now,
	}
}
