package entity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultNotebookName is used when a fork lands in an account without notebooks.
const DefaultNotebookName = "My Notes"

type Notebook struct {
	Id        uuid.UUID
	Name      string
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
