package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ListNotebooksQuery pages through notebooks oldest first. Limit 0 returns all of them.
type ListNotebooksQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

type UpdateNotebookRequest struct {
	Id   uuid.UUID `json:"-"`
	Name string    `json:"name" validate:"required,max=255"`
}

type NotebookResponse struct {
	Id        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Pages     []*PageSummary `json:"pages"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

type PageSummary struct {
	Id             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	YoutubeVideoId string    `json:"youtube_video_id"`
	ThumbnailURL   string    `json:"thumbnail_url"`
	NoteCount      int       `json:"note_count"`
	CreatedAt      time.Time `json:"created_at"`
}
