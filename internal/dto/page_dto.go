package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePageRequest takes either a full video URL or the bare id.
type CreatePageRequest struct {
	NotebookId      uuid.UUID `json:"notebook_id" validate:"required"`
	VideoURL        string    `json:"video_url" validate:"required_without=YoutubeVideoId"`
	YoutubeVideoId  string    `json:"youtube_video_id" validate:"required_without=VideoURL"`
	Title           string    `json:"title" validate:"max=255"`
	VideoTitle      string    `json:"video_title" validate:"max=255"`
	ChannelName     string    `json:"channel_name" validate:"max=255"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	DurationSeconds int       `json:"duration_seconds" validate:"min=0"`
	Description     string    `json:"description"`
}

type UpdatePageRequest struct {
	Id          uuid.UUID `json:"-"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description"`
}

type PageResponse struct {
	Id               uuid.UUID       `json:"id"`
	NotebookId       uuid.UUID       `json:"notebook_id"`
	Title            string          `json:"title"`
	YoutubeVideoId   string          `json:"youtube_video_id"`
	VideoTitle       string          `json:"video_title"`
	ChannelName      string          `json:"channel_name"`
	ThumbnailURL     string          `json:"thumbnail_url"`
	DurationSeconds  int             `json:"duration_seconds"`
	Description      string          `json:"description"`
	SourceShareToken *string         `json:"source_share_token,omitempty"`
	SourceShareType  *string         `json:"source_share_type,omitempty"`
	Notes            []*NoteResponse `json:"notes"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        *time.Time      `json:"updated_at"`
}
