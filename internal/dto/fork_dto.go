package dto

import (
	"time"

	"github.com/google/uuid"
)

type ForkRequest struct {
	ShareToken string `json:"share_token" validate:"required"`
	ShareType  string `json:"share_type" validate:"required,oneof=page note"`
}

type ForkResponse struct {
	PageId        uuid.UUID `json:"page_id"`
	NotebookId    uuid.UUID `json:"notebook_id"`
	Message       string    `json:"message"`
	NotesCopied   int       `json:"notes_copied"`
	AlreadyForked bool      `json:"already_forked"`
}

// ForkAuditMessage is published on the in-process bus after every successful fork.
type ForkAuditMessage struct {
	UserId        uuid.UUID   `json:"user_id"`
	ShareToken    string      `json:"share_token"`
	ShareType     string      `json:"share_type"`
	PageId        uuid.UUID   `json:"page_id"`
	NotebookId    uuid.UUID   `json:"notebook_id"`
	CopiedNoteIds []uuid.UUID `json:"copied_note_ids"`
	OccurredAt    time.Time   `json:"occurred_at"`
}
