package implementation

import (
	"context"
	"errors"

	"embedding-sync-worker/internal/entity"
	"embedding-sync-worker/internal/mapper"
	"embedding-sync-worker/internal/model"
	"embedding-sync-worker/internal/repository/contract"
	"embedding-sync-worker/internal/repository/specification"

	"gorm.io/gorm"
)

const candidateProjection = "p.id AS product_id, p.name AS name, p.description AS description, c.name AS category"

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.EmbeddingCandidateMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewEmbeddingCandidateMapper(),
	}
}

func (r *ProductRepositoryImpl) FindActiveCandidates(ctx context.Context, specs ...specification.Specification) ([]*entity.EmbeddingCandidate, error) {
	var rows []*model.EmbeddingCandidateRow

	base := []specification.Specification{
		specification.WithCategoryName{},
		specification.ActiveProducts{},
		specification.OrderBy{Field: "p.id"},
	}
	query := r.db.WithContext(ctx).
		Table("products AS p").
		Select(candidateProjection)
	query = specification.Apply(query, append(base, specs...)...)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(rows), nil
}

func (r *ProductRepositoryImpl) UpdateEmbedding(ctx context.Context, productId int64, value interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productId).
		Update("vector_embedding", value).Error
}

func (r *ProductRepositoryImpl) FindEmbedding(ctx context.Context, productId int64) ([]byte, error) {
	var m model.Product
	err := r.db.WithContext(ctx).
		Select("id", "vector_embedding").
		Where("id = ?", productId).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(m.VectorEmbedding) == 0 {
		return nil, nil
	}
	return m.VectorEmbedding, nil
}

func (r *ProductRepositoryImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	query := specification.Apply(r.db.WithContext(ctx).Table("products AS p"), specification.ActiveProducts{})
	err := query.Count(&count).Error
	return count, err
}
