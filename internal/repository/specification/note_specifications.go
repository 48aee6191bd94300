package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPageID struct {
	PageID uuid.UUID
}

func (s ByPageID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("page_id = ?", s.PageID)
}

type ByPageIDs struct {
	PageIDs []uuid.UUID
}

func (s ByPageIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("page_id IN ?", s.PageIDs)
}

// HasSourceNote keeps only notes that were forked from another note.
type HasSourceNote struct{}

func (s HasSourceNote) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source_note_id IS NOT NULL")
}

type ByTimestampOrder struct{}

func (s ByTimestampOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("timestamp_seconds ASC").Order("created_at ASC")
}
