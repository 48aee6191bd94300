package model

import (
	"time"

	"github.com/google/uuid"
)

// PageShare rows are insert-only. ExpiresAt nil means the link never expires.
type PageShare struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PageId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	ExpiresAt *time.Time `gorm:"index"`
}

func (PageShare) TableName() string {
	return "page_shares"
}

type NoteShare struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	NoteId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Token     string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	ExpiresAt *time.Time `gorm:"index"`
}

func (NoteShare) TableName() string {
	return "note_shares"
}
