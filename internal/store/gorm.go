package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"burgerexpress/models"
)

// GormBackend stores each collection as one row of the collections table.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend wraps an open, migrated database handle.
func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if db == nil {
		return nil, gorm.ErrInvalidDB
	}
	return &GormBackend{db: db}, nil
}

// Read returns the raw document for name.
func (b *GormBackend) Read(ctx context.Context, name Collection) ([]byte, error) {
	var record models.Collection
	if err := b.db.WithContext(ctx).Where("name = ?", string(name)).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotFound
		}
		return nil, err
	}
	return []byte(record.Document), nil
}

// Write upserts the document for name.
func (b *GormBackend) Write(ctx context.Context, name Collection, document []byte) error {
	record := models.Collection{Name: string(name), Document: string(document)}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&record).Error
}
