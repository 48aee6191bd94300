package mapper

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
)

// ShareMapper folds both share tables into entity.ShareToken.
type ShareMapper struct{}

func NewShareMapper() *ShareMapper {
	return &ShareMapper{}
}

func (m *ShareMapper) PageShareToEntity(s *model.PageShare) *entity.ShareToken {
	if s == nil {
		return nil
	}
	return &entity.ShareToken{
		Id:        s.Id,
		Kind:      entity.ShareKindPage,
		SubjectId: s.PageId,
		Token:     s.Token,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *ShareMapper) NoteShareToEntity(s *model.NoteShare) *entity.ShareToken {
	if s == nil {
		return nil
	}
	return &entity.ShareToken{
		Id:        s.Id,
		Kind:      entity.ShareKindNote,
		SubjectId: s.NoteId,
		Token:     s.Token,
		CreatedBy: s.CreatedBy,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *ShareMapper) ToPageShare(t *entity.ShareToken) *model.PageShare {
	return &model.PageShare{
		Id:        t.Id,
		PageId:    t.SubjectId,
		Token:     t.Token,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}

func (m *ShareMapper) ToNoteShare(t *entity.ShareToken) *model.NoteShare {
	return &model.NoteShare{
		Id:        t.Id,
		NoteId:    t.SubjectId,
		Token:     t.Token,
		CreatedBy: t.CreatedBy,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}
