package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Page struct {
	Id               uuid.UUID      `gorm:"type:uuid;primaryKey"`
	NotebookId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId           uuid.UUID      `gorm:"type:uuid;not null;index:idx_pages_user_video,priority:1;uniqueIndex:uq_pages_user_video_fork,priority:1,where:source_share_token IS NOT NULL AND deleted_at IS NULL"`
	Title            string         `gorm:"type:varchar(255);not null"`
	YoutubeVideoId   string         `gorm:"type:varchar(32);not null;index:idx_pages_user_video,priority:2;uniqueIndex:uq_pages_user_video_fork,priority:2"`
	VideoTitle       string         `gorm:"type:varchar(255)"`
	ChannelName      string         `gorm:"type:varchar(255)"`
	ThumbnailURL     string         `gorm:"type:text"`
	DurationSeconds  int            `gorm:"default:0"`
	Description      string         `gorm:"type:text"`
	SourceShareToken *string        `gorm:"type:varchar(64)"`
	SourceShareType  *string        `gorm:"type:varchar(16)"`
	CreatedAt        time.Time      `gorm:"autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"index"`
}

func (Page) TableName() string {
	return "pages"
}
