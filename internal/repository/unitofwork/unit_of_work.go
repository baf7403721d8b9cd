package unitofwork

import (
	"context"

	"embedding-sync-worker/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	// Rollback is a no-op returning ErrNoTransaction once Commit succeeded,
	// so callers can defer it unconditionally.
	Rollback() error

	ProductRepository() contract.ProductRepository
	EmbeddingQueueRepository() contract.EmbeddingQueueRepository
}
