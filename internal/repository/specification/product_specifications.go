package specification

import "gorm.io/gorm"

// UnprocessedQueueEntries keeps queue rows not yet embedded. Expects the
// queue table aliased as pq.
type UnprocessedQueueEntries struct{}

func (s UnprocessedQueueEntries) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("pq.processed = ?", false)
}

// ActiveProducts drops soft-deleted products. A NULL flag counts as not
// deleted. Expects the products table aliased as p.
type ActiveProducts struct{}

func (s ActiveProducts) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("(p.is_deleted = ? OR p.is_deleted IS NULL)", false)
}

// WithCategoryName joins categories so the projection can read c.name.
type WithCategoryName struct{}

func (s WithCategoryName) Apply(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN categories c ON c.id = p.category_id")
}
