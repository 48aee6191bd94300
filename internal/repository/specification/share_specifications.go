package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// BySubjectID matches the shared subject. Column is page_id or note_id depending on the table.
type BySubjectID struct {
	Column string
	ID     uuid.UUID
}

func (s BySubjectID) Apply(db *gorm.DB) *gorm.DB {
	return Filter(s.Column, s.ID).Apply(db)
}
