package mapper

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:               n.Id,
		PageId:           n.PageId,
		UserId:           n.UserId,
		Content:          n.Content,
		TimestampSeconds: n.TimestampSeconds,
		SourceNoteId:     n.SourceNoteId,
		SourceShareToken: n.SourceShareToken,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        updatedAtPtr(n.UpdatedAt),
		DeletedAt:        deletedAtPtr(n.DeletedAt),
		IsDeleted:        n.DeletedAt.Valid,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:               n.Id,
		PageId:           n.PageId,
		UserId:           n.UserId,
		Content:          n.Content,
		TimestampSeconds: n.TimestampSeconds,
		SourceNoteId:     n.SourceNoteId,
		SourceShareToken: n.SourceShareToken,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        updatedAtValue(n.UpdatedAt),
		DeletedAt:        toGormDeletedAt(n.DeletedAt, n.IsDeleted),
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
