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
	"github.com/samber/lo"
)

type INotebookService interface {
	GetAll(ctx context.Context, userId uuid.UUID, query *dto.ListNotebooksQuery) ([]*dto.NotebookResponse, error)
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type notebookService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotebookService(uowFactory unitofwork.RepositoryFactory) INotebookService {
	return &notebookService{
		uowFactory: uowFactory,
	}
}

func (c *notebookService) GetAll(ctx context.Context, userId uuid.UUID, query *dto.ListNotebooksQuery) ([]*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebooks, err := uow.NotebookRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load notebooks", err)
	}
	if len(notebooks) == 0 {
		return []*dto.NotebookResponse{}, nil
	}

	ids := lo.Map(notebooks, func(n *entity.Notebook, _ int) uuid.UUID { return n.Id })
	pages, err := uow.PageRepository().FindAll(ctx,
		specification.ByNotebookIDs{NotebookIDs: ids},
		specification.UserOwnedBy{UserID: userId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load pages", err)
	}

	summaries, err := c.pageSummaries(ctx, uow, userId, pages)
	if err != nil {
		return nil, err
	}
	byNotebook := lo.GroupBy(summaries, func(p *pageSummaryRow) uuid.UUID { return p.notebookId })

	return lo.Map(notebooks, func(n *entity.Notebook, _ int) *dto.NotebookResponse {
		res := toNotebookResponse(n)
		res.Pages = lo.Map(byNotebook[n.Id], func(p *pageSummaryRow, _ int) *dto.PageSummary { return p.summary })
		return res
	}), nil
}

func (c *notebookService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateNotebookRequest) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	notebook := &entity.Notebook{
		Id:        uuid.New(),
		Name:      req.Name,
		UserId:    userId,
		CreatedAt: time.Now().UTC(),
	}

	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return nil, apperror.WriteFailed("failed to create notebook", err)
	}

	return toNotebookResponse(notebook), nil
}

func (c *notebookService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.owned(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	pages, err := uow.PageRepository().FindAll(ctx,
		specification.ByNotebookID{NotebookID: notebook.Id},
		specification.UserOwnedBy{UserID: userId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load pages", err)
	}

	summaries, err := c.pageSummaries(ctx, uow, userId, pages)
	if err != nil {
		return nil, err
	}

	res := toNotebookResponse(notebook)
	res.Pages = lo.Map(summaries, func(p *pageSummaryRow, _ int) *dto.PageSummary { return p.summary })
	return res, nil
}

func (c *notebookService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateNotebookRequest) (*dto.NotebookResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.owned(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	notebook.Name = req.Name
	notebook.UpdatedAt = &now

	if err := uow.NotebookRepository().Update(ctx, notebook); err != nil {
		return nil, apperror.WriteFailed("failed to update notebook", err)
	}

	return toNotebookResponse(notebook), nil
}

// Delete soft-deletes the notebook with its pages and their notes.
func (c *notebookService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	notebook, err := c.owned(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	pages, err := uow.PageRepository().FindAll(ctx, specification.ByNotebookID{NotebookID: notebook.Id})
	if err != nil {
		return apperror.Internal("failed to load pages", err)
	}
	pageIds := lo.Map(pages, func(p *entity.Page, _ int) uuid.UUID { return p.Id })

	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal("failed to start transaction", err)
	}
	if err := uow.NoteRepository().DeleteByPageIds(ctx, pageIds); err != nil {
		_ = uow.Rollback()
		return apperror.WriteFailed("failed to delete notes", err)
	}
	if err := uow.PageRepository().DeleteByNotebookId(ctx, notebook.Id); err != nil {
		_ = uow.Rollback()
		return apperror.WriteFailed("failed to delete pages", err)
	}
	if err := uow.NotebookRepository().Delete(ctx, notebook.Id); err != nil {
		_ = uow.Rollback()
		return apperror.WriteFailed("failed to delete notebook", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.WriteFailed("failed to delete notebook", err)
	}
	return nil
}

func (c *notebookService) owned(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Notebook, error) {
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load notebook", err)
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}
	return notebook, nil
}

type pageSummaryRow struct {
	notebookId uuid.UUID
	summary    *dto.PageSummary
}

func (c *notebookService) pageSummaries(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, pages []*entity.Page) ([]*pageSummaryRow, error) {
	if len(pages) == 0 {
		return []*pageSummaryRow{}, nil
	}

	pageIds := lo.Map(pages, func(p *entity.Page, _ int) uuid.UUID { return p.Id })
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByPageIDs{PageIDs: pageIds},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load notes", err)
	}
	notesByPage := lo.GroupBy(notes, func(n *entity.Note) uuid.UUID { return n.PageId })

	return lo.Map(pages, func(p *entity.Page, _ int) *pageSummaryRow {
		return &pageSummaryRow{
			notebookId: p.NotebookId,
			summary: &dto.PageSummary{
				Id:             p.Id,
				Title:          p.Title,
				YoutubeVideoId: p.YoutubeVideoId,
				ThumbnailURL:   p.ThumbnailURL,
				NoteCount:      len(notesByPage[p.Id]),
				CreatedAt:      p.CreatedAt,
			},
		}
	}), nil
}

func toNotebookResponse(n *entity.Notebook) *dto.NotebookResponse {
	return &dto.NotebookResponse{
		Id:        n.Id,
		Name:      n.Name,
		Pages:     []*dto.PageSummary{},
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}
