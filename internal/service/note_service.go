package service

import (
	"context"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type INoteService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type noteService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNoteService(uowFactory unitofwork.RepositoryFactory) INoteService {
	return &noteService{
		uowFactory: uowFactory,
	}
}

func (c *noteService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	page, err := ownedPage(ctx, uow, userId, req.PageId)
	if err != nil {
		return nil, err
	}

	note := &entity.Note{
		Id:               uuid.New(),
		PageId:           page.Id,
		UserId:           userId,
		Content:          req.Content,
		TimestampSeconds: req.TimestampSeconds,
		CreatedAt:        time.Now().UTC(),
	}
	if err := checkTimestamp(page, note.TimestampSeconds); err != nil {
		return nil, err
	}

	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return nil, apperror.WriteFailed("failed to create note", err)
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.owned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}
	page, err := ownedPage(ctx, uow, userId, note.PageId)
	if err != nil {
		return nil, err
	}
	if err := checkTimestamp(page, req.TimestampSeconds); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note.Content = req.Content
	note.TimestampSeconds = req.TimestampSeconds
	note.UpdatedAt = &now

	if err := uow.NoteRepository().Update(ctx, note); err != nil {
		return nil, apperror.WriteFailed("failed to update note", err)
	}
	return toNoteResponse(note), nil
}

func (c *noteService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	note, err := c.owned(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if err := uow.NoteRepository().Delete(ctx, note.Id); err != nil {
		return apperror.WriteFailed("failed to delete note", err)
	}
	return nil
}

func (c *noteService) owned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load note", err)
	}
	if note == nil {
		return nil, apperror.NotFound("note not found")
	}
	return note, nil
}

// checkTimestamp rejects timestamps past the end of the video when its duration is known.
func checkTimestamp(page *entity.Page, seconds int) error {
	if page.DurationSeconds > 0 && seconds > page.DurationSeconds {
		return apperror.Validation("timestamp_seconds is past the end of the video")
	}
	return nil
}

func toNoteResponse(n *entity.Note) *dto.NoteResponse {
	return &dto.NoteResponse{
		Id:               n.Id,
		PageId:           n.PageId,
		Content:          n.Content,
		TimestampSeconds: n.TimestampSeconds,
		SourceNoteId:     n.SourceNoteId,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        n.UpdatedAt,
	}
}
