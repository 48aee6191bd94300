package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ForkEvent is the audit trail of successful forks, written by the background consumer.
type ForkEvent struct {
	Id            uuid.UUID                      `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID                      `gorm:"type:uuid;not null;index"`
	ShareToken    string                         `gorm:"type:varchar(64);not null;index"`
	ShareType     string                         `gorm:"type:varchar(16);not null"`
	PageId        uuid.UUID                      `gorm:"type:uuid;not null"`
	NotebookId    uuid.UUID                      `gorm:"type:uuid;not null"`
	NotesCopied   int                            `gorm:"not null;default:0"`
	CopiedNoteIds datatypes.JSONSlice[uuid.UUID] `gorm:"type:json"`
	CreatedAt     time.Time                      `gorm:"autoCreateTime"`
}

func (ForkEvent) TableName() string {
	return "fork_events"
}
