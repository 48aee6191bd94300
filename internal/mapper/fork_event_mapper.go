package mapper

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
)

type ForkEventMapper struct{}

func NewForkEventMapper() *ForkEventMapper {
	return &ForkEventMapper{}
}

func (m *ForkEventMapper) ToModel(e *entity.ForkEvent) *model.ForkEvent {
	return &model.ForkEvent{
		Id:            e.Id,
		UserId:        e.UserId,
		ShareToken:    e.ShareToken,
		ShareType:     e.ShareType.String(),
		PageId:        e.PageId,
		NotebookId:    e.NotebookId,
		NotesCopied:   e.NotesCopied,
		CopiedNoteIds: e.CopiedNoteIds,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ForkEventMapper) ToEntity(e *model.ForkEvent) *entity.ForkEvent {
	if e == nil {
		return nil
	}
	return &entity.ForkEvent{
		Id:            e.Id,
		UserId:        e.UserId,
		ShareToken:    e.ShareToken,
		ShareType:     entity.ShareKind(e.ShareType),
		PageId:        e.PageId,
		NotebookId:    e.NotebookId,
		NotesCopied:   e.NotesCopied,
		CopiedNoteIds: e.CopiedNoteIds,
		CreatedAt:     e.CreatedAt,
	}
}
