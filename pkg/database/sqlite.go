package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// NewInMemorySQLite opens a private in-memory database for tests. The pool
// is pinned to one connection because every new SQLite connection to
// :memory: would see an empty database.
func NewInMemorySQLite() (*gorm.DB, error) {
	db, err := NewGormDBFromDialector(sqlite.Open(":memory:"), false)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	return db, nil
}
