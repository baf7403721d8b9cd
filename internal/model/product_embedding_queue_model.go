package model

// ProductEmbeddingQueue is a pending-work row written by the catalog whenever
// a product is inserted or updated.
type ProductEmbeddingQueue struct {
	ProductId int64 `gorm:"column:product_id;not null;index"`
	Processed bool  `gorm:"not null"`
}

func (ProductEmbeddingQueue) TableName() string {
	return "product_embedding_queue"
}

// EmbeddingCandidateRow is the projection shared by the queue and backfill
// queries: product_id, name, description, category.
type EmbeddingCandidateRow struct {
	ProductId   int64
	Name        string
	Description *string
	Category    string
}
