package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

type ByNotebookIDs struct {
	NotebookIDs []uuid.UUID
}

func (s ByNotebookIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id IN ?", s.NotebookIDs)
}

type ByVideoID struct {
	VideoID string
}

func (s ByVideoID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("youtube_video_id = ?", s.VideoID)
}
