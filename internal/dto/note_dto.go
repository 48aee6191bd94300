package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateNoteRequest struct {
	PageId           uuid.UUID `json:"page_id" validate:"required"`
	Content          string    `json:"content" validate:"required"`
	TimestampSeconds int       `json:"timestamp_seconds" validate:"min=0"`
}

type UpdateNoteRequest struct {
	Id               uuid.UUID `json:"-"`
	Content          string    `json:"content" validate:"required"`
	TimestampSeconds int       `json:"timestamp_seconds" validate:"min=0"`
}

type NoteResponse struct {
	Id               uuid.UUID  `json:"id"`
	PageId           uuid.UUID  `json:"page_id"`
	Content          string     `json:"content"`
	TimestampSeconds int        `json:"timestamp_seconds"`
	SourceNoteId     *uuid.UUID `json:"source_note_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at"`
}
