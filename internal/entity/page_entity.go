package entity

import (
	"time"

	"github.com/google/uuid"
)

type Page struct {
	Id               uuid.UUID
	NotebookId       uuid.UUID
	UserId           uuid.UUID
	Title            string
	YoutubeVideoId   string
	VideoTitle       string
	ChannelName      string
	ThumbnailURL     string
	DurationSeconds  int
	Description      string
	SourceShareToken *string
	SourceShareType  *ShareKind
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

// CloneFor copies the video metadata of p into a new page owned by userId.
func (p *Page) CloneFor(userId, notebookId uuid.UUID, token string, kind ShareKind) *Page {
	return &Page{
		Id:               uuid.New(),
		NotebookId:       notebookId,
		UserId:           userId,
		Title:            p.Title,
		YoutubeVideoId:   p.YoutubeVideoId,
		VideoTitle:       p.VideoTitle,
		ChannelName:      p.ChannelName,
		ThumbnailURL:     p.ThumbnailURL,
		DurationSeconds:  p.DurationSeconds,
		Description:      p.Description,
		SourceShareToken: &token,
		SourceShareType:  &kind,
		CreatedAt:        time.Now().UTC(),
	}
}
