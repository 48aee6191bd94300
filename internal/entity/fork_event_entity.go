package entity

import (
	"time"

	"github.com/google/uuid"
)

type ForkEvent struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	ShareToken    string
	ShareType     ShareKind
	PageId        uuid.UUID
	NotebookId    uuid.UUID
	NotesCopied   int
	CopiedNoteIds []uuid.UUID
	CreatedAt     time.Time
}
