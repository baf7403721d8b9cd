package contract

import (
	"context"

	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/repository/specification"
)

type ProductRepository interface {
	// FindActiveCandidates returns every non-deleted product joined with its
	// category name, ordered by product id.
	FindActiveCandidates(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingCandidate, error)
	// UpdateEmbedding binds value (already in storage format) to
	// products.vector_embedding.
	UpdateEmbedding(ctx context.Context, productId int64, value interface{}) error
	// FindEmbedding returns the raw stored embedding, nil when unset.
	FindEmbedding(ctx context.Context, productId int64) ([]byte, error)
	CountActive(ctx context.Context) (int64, error)
}
