package dto

import (
	"time"

	"github.com/google/uuid"
)

type SharePageRequest struct {
	PageId uuid.UUID `json:"page_id" validate:"required"`
}

type ShareNoteRequest struct {
	NoteId uuid.UUID `json:"note_id" validate:"required"`
}

type ShareTokenResponse struct {
	ShareToken string     `json:"share_token"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

// SharedVideo is the public part of a page: enough to embed the player.
type SharedVideo struct {
	YoutubeVideoId  string `json:"youtube_video_id"`
	VideoTitle      string `json:"video_title"`
	ChannelName     string `json:"channel_name"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int    `json:"duration_seconds"`
	WatchURL        string `json:"watch_url"`
}

type SharedNote struct {
	Content          string `json:"content"`
	ContentHTML      string `json:"content_html"`
	TimestampSeconds int    `json:"timestamp_seconds"`
	WatchURL         string `json:"watch_url"`
}

type SharedPageResponse struct {
	ShareToken  string       `json:"share_token"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Video       SharedVideo  `json:"video"`
	Notes       []SharedNote `json:"notes"`
}

type SharedNoteResponse struct {
	ShareToken string      `json:"share_token"`
	PageTitle  string      `json:"page_title"`
	Video      SharedVideo `json:"video"`
	Note       SharedNote  `json:"note"`
}
