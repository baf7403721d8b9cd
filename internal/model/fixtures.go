package model

import "gorm.io/gorm"

// CatalogFixture is a minimal catalog used by tests.
// The worker never creates these tables in a real deployment.
type CatalogFixture struct {
	Categories []Category
	Products   []Product
	Queue      []ProductEmbeddingQueue
}

func MigrateCatalog(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Product{}, &ProductEmbeddingQueue{})
}

func SeedCatalog(db *gorm.DB, fixture CatalogFixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if len(fixture.Categories) > 0 {
			if err := tx.Create(&fixture.Categories).Error; err != nil {
				return err
			}
		}
		if len(fixture.Products) > 0 {
			if err := tx.Create(&fixture.Products).Error; err != nil {
				return err
			}
		}
		if len(fixture.Queue) > 0 {
			if err := tx.Create(&fixture.Queue).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
