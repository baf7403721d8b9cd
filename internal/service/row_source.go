package service

import (
	"context"

	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/repository/unitofwork"
)

const (
	ModeQueue    = "queue"
	ModeBackfill = "backfill"
)

// RowSource feeds SyncBatch. Next and Complete run inside the batch
// transaction, so whatever Complete changes commits or rolls back together
// with the embeddings.
type RowSource interface {
	Mode() string
	Next(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.EmbeddingCandidate, error)
	Complete(ctx context.Context, uow unitofwork.UnitOfWork, candidates []*entity.EmbeddingCandidate) error
}

// QueueSource reads up to limit pending queue entries and marks them
// processed on completion.
type QueueSource struct {
	limit int
}

func NewQueueSource(limit int) *QueueSource {
	return &QueueSource{limit: limit}
}

func (s *QueueSource) Mode() string {
	return ModeQueue
}

func (s *QueueSource) Next(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.EmbeddingCandidate, error) {
	return uow.EmbeddingQueueRepository().FindPending(ctx, s.limit)
}

func (s *QueueSource) Complete(ctx context.Context, uow unitofwork.UnitOfWork, candidates []*entity.EmbeddingCandidate) error {
	_, err := uow.EmbeddingQueueRepository().MarkProcessed(ctx, entity.ProductIds(candidates))
	return err
}

// BatchSource serves one precomputed batch on its first Next call and
// nothing afterwards. It never touches the queue table.
type BatchSource struct {
	batch  []*entity.EmbeddingCandidate
	served bool
}

func NewBatchSource(batch []*entity.EmbeddingCandidate) *BatchSource {
	return &BatchSource{batch: batch}
}

func (s *BatchSource) Mode() string {
	return ModeBackfill
}

func (s *BatchSource) Next(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.EmbeddingCandidate, error) {
	if s.served {
		return nil, nil
	}
	s.served = true
	return s.batch, nil
}

func (s *BatchSource) Complete(ctx context.Context, uow unitofwork.UnitOfWork, candidates []*entity.EmbeddingCandidate) error {
	return nil
}
