package model

import "gorm.io/datatypes"

// Product maps the catalog's products table. Only the columns this worker
// reads or writes are declared.
type Product struct {
	Id              int64          `gorm:"primaryKey"`
	Name            string         `gorm:"type:varchar(255);not null"`
	Description     *string        `gorm:"type:text"`
	CategoryId      int64          `gorm:"not null;index"`
	IsDeleted       bool           `gorm:"not null"`
	VectorEmbedding datatypes.JSON `gorm:"type:jsonb"`
}

func (Product) TableName() string {
	return "products"
}
