package implementation

import (
	"context"

	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/mapper"
	"embedding-sync-worker/internal/model"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/repository/specification"

	"gorm.io/gorm"
)

type EmbeddingQueueRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingCandidateMapper
}

func NewEmbeddingQueueRepository(db *gorm.DB) contract.EmbeddingQueueRepository {
	return &EmbeddingQueueRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingCandidateMapper(),
	}
}

func (r *EmbeddingQueueRepositoryImpl) FindPending(ctx context.Context, limit int) ([]*entity.EmbeddingCandidate, error) {
	var rows []*model.EmbeddingCandidateRow

	query := r.db.WithContext(ctx).
		Table("product_embedding_queue AS pq").
		Select(candidateProjection).
		Joins("JOIN products p ON p.id = pq.product_id")
	query = specification.Apply(query,
		specification.WithCategoryName{},
		specification.UnprocessedQueueEntries{},
		specification.OrderBy{Field: "pq.product_id"},
		specification.Limit{N: limit},
	)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *EmbeddingQueueRepositoryImpl) MarkProcessed(ctx context.Context, productIds []int64) (int64, error) {
	if len(productIds) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&model.ProductEmbeddingQueue{}).
		Where("product_id IN ?", productIds).
		Where("processed = ?", false).
		Update("processed", true)
	return result.RowsAffected, result.Error
}

func (r *EmbeddingQueueRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	var count int64
	query := specification.Apply(
		r.db.WithContext(ctx).Table("product_embedding_queue AS pq"),
		specification.UnprocessedQueueEntries{},
	)
	err := query.Count(&count).Error
	return count, err
}
