package service

import (
	"context"
	"strings"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/pkg/youtube"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const untitledPage = "Untitled video"

type IPageService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePageRequest) (*dto.PageResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PageResponse, error)
	FindByVideo(ctx context.Context, userId uuid.UUID, videoId string) (*dto.PageResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePageRequest) (*dto.PageResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type pageService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPageService(uowFactory unitofwork.RepositoryFactory) IPageService {
	return &pageService{
		uowFactory: uowFactory,
	}
}

func (s *pageService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreatePageRequest) (*dto.PageResponse, error) {
	source := req.YoutubeVideoId
	if source == "" {
		source = req.VideoURL
	}
	videoId, err := youtube.ParseVideoID(source)
	if err != nil {
		return nil, apperror.Validation("video_url is not a YouTube video")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.ByID{ID: req.NotebookId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load notebook", err)
	}
	if notebook == nil {
		return nil, apperror.NotFound("notebook not found")
	}

	page := &entity.Page{
		Id:              uuid.New(),
		NotebookId:      notebook.Id,
		UserId:          userId,
		Title:           firstNonEmpty(req.Title, req.VideoTitle, untitledPage),
		YoutubeVideoId:  videoId,
		VideoTitle:      req.VideoTitle,
		ChannelName:     req.ChannelName,
		ThumbnailURL:    firstNonEmpty(req.ThumbnailURL, youtube.ThumbnailURL(videoId)),
		DurationSeconds: req.DurationSeconds,
		Description:     req.Description,
		CreatedAt:       time.Now().UTC(),
	}
	if err := uow.PageRepository().Create(ctx, page); err != nil {
		return nil, apperror.WriteFailed("failed to create page", err)
	}

	return toPageResponse(page, nil), nil
}

func (s *pageService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.PageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, err := ownedPage(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}
	return s.withNotes(ctx, uow, page)
}

// FindByVideo returns the caller's oldest page for the video, the same one a fork would use.
func (s *pageService) FindByVideo(ctx context.Context, userId uuid.UUID, videoId string) (*dto.PageResponse, error) {
	if !youtube.IsVideoID(videoId) {
		return nil, apperror.Validation("invalid video id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	page, err := uow.PageRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVideoID{VideoID: videoId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load page", err)
	}
	if page == nil {
		return nil, apperror.NotFound("page not found")
	}
	return s.withNotes(ctx, uow, page)
}

func (s *pageService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdatePageRequest) (*dto.PageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, err := ownedPage(ctx, uow, userId, req.Id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	page.Title = strings.TrimSpace(req.Title)
	page.Description = req.Description
	page.UpdatedAt = &now

	if err := uow.PageRepository().Update(ctx, page); err != nil {
		return nil, apperror.WriteFailed("failed to update page", err)
	}
	return s.withNotes(ctx, uow, page)
}

func (s *pageService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, err := ownedPage(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal("failed to start transaction", err)
	}
	if err := uow.NoteRepository().DeleteByPageIds(ctx, []uuid.UUID{page.Id}); err != nil {
		_ = uow.Rollback()
		return apperror.WriteFailed("failed to delete notes", err)
	}
	if err := uow.PageRepository().Delete(ctx, page.Id); err != nil {
		_ = uow.Rollback()
		return apperror.WriteFailed("failed to delete page", err)
	}
	if err := uow.Commit(); err != nil {
		return apperror.WriteFailed("failed to delete page", err)
	}
	return nil
}

func (s *pageService) withNotes(ctx context.Context, uow unitofwork.UnitOfWork, page *entity.Page) (*dto.PageResponse, error) {
	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByPageID{PageID: page.Id},
		specification.UserOwnedBy{UserID: page.UserId},
		specification.ByTimestampOrder{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load notes", err)
	}
	return toPageResponse(page, notes), nil
}

func ownedPage(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.Page, error) {
	page, err := uow.PageRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load page", err)
	}
	if page == nil {
		return nil, apperror.NotFound("page not found")
	}
	return page, nil
}

func toPageResponse(p *entity.Page, notes []*entity.Note) *dto.PageResponse {
	res := &dto.PageResponse{
		Id:               p.Id,
		NotebookId:       p.NotebookId,
		Title:            p.Title,
		YoutubeVideoId:   p.YoutubeVideoId,
		VideoTitle:       p.VideoTitle,
		ChannelName:      p.ChannelName,
		ThumbnailURL:     p.ThumbnailURL,
		DurationSeconds:  p.DurationSeconds,
		Description:      p.Description,
		SourceShareToken: p.SourceShareToken,
		Notes:            lo.Map(notes, func(n *entity.Note, _ int) *dto.NoteResponse { return toNoteResponse(n) }),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.SourceShareType != nil {
		kind := p.SourceShareType.String()
		res.SourceShareType = &kind
	}
	return res
}

func firstNonEmpty(values ...string) string {
	v, _ := lo.Find(values, func(s string) bool { return strings.TrimSpace(s) != "" })
	return strings.TrimSpace(v)
}
