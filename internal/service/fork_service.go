package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/metrics"
	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/pkg/events"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	forkCopiedMessage  = "Copied %d note(s) into your notebook"
	forkAlreadyMessage = "This content is already in your notebook"
)

type IForkService interface {
	Fork(ctx context.Context, userId uuid.UUID, kind entity.ShareKind, token string) (*dto.ForkResponse, error)
}

type forkService struct {
	uowFactory     unitofwork.RepositoryFactory
	shareService   IShareService
	eventPublisher events.Publisher
	auditPublisher IPublisherService
	metrics        *metrics.Metrics
	logger         logger.ILogger
}

func NewForkService(
	uowFactory unitofwork.RepositoryFactory,
	shareService IShareService,
	eventPublisher events.Publisher,
	auditPublisher IPublisherService,
	m *metrics.Metrics,
	log logger.ILogger,
) IForkService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &forkService{
		uowFactory:     uowFactory,
		shareService:   shareService,
		eventPublisher: eventPublisher,
		auditPublisher: auditPublisher,
		metrics:        m,
		logger:         log,
	}
}

// Fork copies the shared notes into userId's account. Note inserts are not wrapped in a
// transaction; a retry after a partial failure skips what was already copied.
func (s *forkService) Fork(ctx context.Context, userId uuid.UUID, kind entity.ShareKind, token string) (*dto.ForkResponse, error) {
	share, err := s.shareService.Resolve(ctx, kind, token)
	if err != nil {
		s.metrics.ForkFailed(kind.String())
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	page, notebookId, copied, err := s.fork(ctx, uow, userId, share)
	if err != nil {
		s.metrics.ForkFailed(kind.String())
		s.logger.Error("FORK", "Fork failed", map[string]interface{}{
			"error":      err,
			"user_id":    userId.String(),
			"share_type": kind.String(),
		})
		return nil, err
	}

	alreadyForked := len(copied) == 0
	s.metrics.Forked(kind.String(), len(copied), alreadyForked)

	res := &dto.ForkResponse{
		PageId:        page.Id,
		NotebookId:    notebookId,
		NotesCopied:   len(copied),
		AlreadyForked: alreadyForked,
		Message:       forkAlreadyMessage,
	}
	if !alreadyForked {
		res.Message = fmt.Sprintf(forkCopiedMessage, len(copied))
		s.announce(ctx, userId, share, res, copied)
	}

	s.logger.Info("FORK", "Fork completed", map[string]interface{}{
		"user_id":        userId.String(),
		"share_type":     kind.String(),
		"page_id":        page.Id.String(),
		"notes_copied":   res.NotesCopied,
		"already_forked": res.AlreadyForked,
	})

	return res, nil
}

func (s *forkService) fork(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, share *entity.ShareToken) (*entity.Page, uuid.UUID, []uuid.UUID, error) {
	sourceNotes, sourcePageId, err := s.sourceNotes(ctx, uow, share)
	if err != nil {
		return nil, uuid.Nil, nil, err
	}

	sourcePage, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: sourcePageId})
	if err != nil {
		return nil, uuid.Nil, nil, apperror.Internal("failed to load shared page", err)
	}
	if sourcePage == nil {
		return nil, uuid.Nil, nil, apperror.NotFound("shared page no longer exists")
	}

	page, err := s.destinationPage(ctx, uow, userId, sourcePage, share)
	if err != nil {
		return nil, uuid.Nil, nil, err
	}

	existing, err := uow.NoteRepository().FindAll(ctx, specification.ByPageID{PageID: page.Id})
	if err != nil {
		return nil, uuid.Nil, nil, apperror.Internal("failed to load destination notes", err)
	}

	// Skip notes copied before, and notes that already live on the destination page
	// (forking your own share lands on the original page).
	skip := make(map[uuid.UUID]struct{}, len(existing)*2)
	for _, n := range existing {
		skip[n.Id] = struct{}{}
		if n.SourceNoteId != nil {
			skip[*n.SourceNoteId] = struct{}{}
		}
	}
	pending := lo.Reject(sourceNotes, func(n *entity.Note, _ int) bool {
		_, seen := skip[n.Id]
		return seen
	})

	copied := make([]uuid.UUID, 0, len(pending))
	for _, source := range pending {
		note := source.ForkTo(userId, page.Id, share.Token)
		if err := uow.NoteRepository().Create(ctx, note); err != nil {
			if errors.Is(err, contract.ErrDuplicate) {
				// A concurrent fork inserted it first
				continue
			}
			return nil, uuid.Nil, nil, apperror.WriteFailed("failed to copy note", err)
		}
		copied = append(copied, note.Id)
	}

	return page, page.NotebookId, copied, nil
}

func (s *forkService) sourceNotes(ctx context.Context, uow unitofwork.UnitOfWork, share *entity.ShareToken) ([]*entity.Note, uuid.UUID, error) {
	if share.Kind == entity.ShareKindNote {
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: share.SubjectId})
		if err != nil {
			return nil, uuid.Nil, apperror.Internal("failed to load shared note", err)
		}
		if note == nil {
			return nil, uuid.Nil, apperror.NotFound("shared note no longer exists")
		}
		return []*entity.Note{note}, note.PageId, nil
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByPageID{PageID: share.SubjectId},
		specification.ByTimestampOrder{},
	)
	if err != nil {
		return nil, uuid.Nil, apperror.Internal("failed to load shared notes", err)
	}
	return notes, share.SubjectId, nil
}

// destinationPage returns the caller's oldest page for the video, creating it (and a
// notebook when needed) on first fork. An existing page is never moved.
func (s *forkService) destinationPage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, source *entity.Page, share *entity.ShareToken) (*entity.Page, error) {
	page, err := s.findDestinationPage(ctx, uow, userId, source.YoutubeVideoId)
	if err != nil || page != nil {
		return page, err
	}

	page, err = s.createDestinationPage(ctx, uow, userId, source, share)
	if !errors.Is(err, contract.ErrDuplicate) {
		return page, err
	}

	// A concurrent fork created the page first; its transaction also owns the notebook.
	page, err = s.findDestinationPage(ctx, uow, userId, source.YoutubeVideoId)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, apperror.Internal("destination page vanished after a concurrent fork", nil)
	}
	return page, nil
}

func (s *forkService) findDestinationPage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, videoId string) (*entity.Page, error) {
	page, err := uow.PageRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByVideoID{VideoID: videoId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to look up destination page", err)
	}
	return page, nil
}

// createDestinationPage writes the notebook and page together, so a loser of the
// uq_pages_user_video_fork race leaves no empty notebook behind.
func (s *forkService) createDestinationPage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, source *entity.Page, share *entity.ShareToken) (*entity.Page, error) {
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal("failed to start transaction", err)
	}

	notebook, err := s.destinationNotebook(ctx, uow, userId)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	page := source.CloneFor(userId, notebook.Id, share.Token, share.Kind)
	if err := uow.PageRepository().Create(ctx, page); err != nil {
		_ = uow.Rollback()
		return nil, apperror.WriteFailed("failed to create page", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.WriteFailed("failed to create page", err)
	}
	return page, nil
}

func (s *forkService) destinationNotebook(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*entity.Notebook, error) {
	notebook, err := uow.NotebookRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OldestFirst{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to look up notebook", err)
	}
	if notebook != nil {
		return notebook, nil
	}

	notebook = &entity.Notebook{
		Id:        uuid.New(),
		Name:      entity.DefaultNotebookName,
		UserId:    userId,
		CreatedAt: time.Now().UTC(),
	}
	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return nil, apperror.WriteFailed("failed to create notebook", err)
	}
	return notebook, nil
}

// announce is best effort: failures are logged and never fail the fork.
func (s *forkService) announce(ctx context.Context, userId uuid.UUID, share *entity.ShareToken, res *dto.ForkResponse, copied []uuid.UUID) {
	evt := events.New(events.ContentForked, map[string]interface{}{
		"user_id":      userId.String(),
		"share_type":   share.Kind.String(),
		"source_id":    share.SubjectId.String(),
		"page_id":      res.PageId.String(),
		"notebook_id":  res.NotebookId.String(),
		"notes_copied": res.NotesCopied,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("FORK", "Failed to publish fork event", map[string]interface{}{"error": err.Error()})
	}

	if s.auditPublisher == nil {
		return
	}
	payload, err := json.Marshal(dto.ForkAuditMessage{
		UserId:        userId,
		ShareToken:    share.Token,
		ShareType:     share.Kind.String(),
		PageId:        res.PageId,
		NotebookId:    res.NotebookId,
		CopiedNoteIds: copied,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := s.auditPublisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("FORK", "Failed to publish fork audit", map[string]interface{}{"error": err.Error()})
	}
}
