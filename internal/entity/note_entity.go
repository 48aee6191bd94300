package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id               uuid.UUID
	PageId           uuid.UUID
	UserId           uuid.UUID
	Content          string
	TimestampSeconds int
	SourceNoteId     *uuid.UUID
	SourceShareToken *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	DeletedAt        *time.Time
	IsDeleted        bool
}

// ForkTo returns a copy of n on pageId owned by userId, stamped with its provenance.
func (n *Note) ForkTo(userId, pageId uuid.UUID, token string) *Note {
	sourceId := n.Id
	return &Note{
		Id:               uuid.New(),
		PageId:           pageId,
		UserId:           userId,
		Content:          n.Content,
		TimestampSeconds: n.TimestampSeconds,
		SourceNoteId:     &sourceId,
		SourceShareToken: &token,
		CreatedAt:        time.Now().UTC(),
	}
}
