package contract

import (
	"context"

	"embedding-sync-worker/internal/entity"
)

type EmbeddingQueueRepository interface {
	// FindPending returns up to limit unprocessed entries joined with the
	// product and category they point at.
	FindPending(ctx context.Context, limit int) ([]*entity.EmbeddingCandidate, error)
	// MarkProcessed flips processed for every entry of the given products and
	// returns the number of rows changed.
	MarkProcessed(ctx context.Context, productIds []int64) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
