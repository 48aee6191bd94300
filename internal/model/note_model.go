package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PageId           uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:uq_notes_page_source_note,priority:1,where:source_note_id IS NOT NULL AND deleted_at IS NULL"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Content          string         `gorm:"type:text"`
	TimestampSeconds int            `gorm:"not null;default:0"`
	SourceNoteId     *uuid.UUID     `gorm:"type:uuid;uniqueIndex:uq_notes_page_source_note,priority:2"`
	SourceShareToken *string        `gorm:"type:varchar(64)"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
