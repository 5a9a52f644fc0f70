// Package history persists download attempts in a local SQLite database.
package history

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	Status Status
	URL    string
	Limit  int
}

// Repository stores Entries with gorm on SQLite.
type Repository struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

// Record inserts a new entry.
func (r *Repository) Record(e *Entry) error {
	return r.db.Create(e).Error
}

// List returns entries newest first.
func (r *Repository) List(f Filter) ([]*Entry, error) {
	var entries []*Entry
	query := r.db
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.URL != "" {
		query = query.Where("url = ?", f.URL)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// CountByStatus returns how many entries have status.
func (r *Repository) CountByStatus(status Status) (int64, error) {
	var count int64
	err := r.db.Model(&Entry{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Close closes the database connection.
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
