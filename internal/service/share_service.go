package service

import (
	"context"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/metrics"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/pkg/events"
	"vidnotes-be/pkg/markdown"
	"vidnotes-be/pkg/youtube"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Unknown and expired tokens answer with the same message.
const shareNotFoundMessage = "share link not found or expired"

type IShareService interface {
	Issue(ctx context.Context, ownerId uuid.UUID, kind entity.ShareKind, subjectId uuid.UUID) (*entity.ShareToken, error)
	Resolve(ctx context.Context, kind entity.ShareKind, token string) (*entity.ShareToken, error)
	GetSharedPage(ctx context.Context, token string) (*dto.SharedPageResponse, error)
	GetSharedNote(ctx context.Context, token string) (*dto.SharedNoteResponse, error)
}

type shareService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokenTTL       time.Duration
	eventPublisher events.Publisher
	metrics        *metrics.Metrics
	logger         logger.ILogger
	now            func() time.Time
}

func NewShareService(
	uowFactory unitofwork.RepositoryFactory,
	tokenTTL time.Duration,
	eventPublisher events.Publisher,
	m *metrics.Metrics,
	log logger.ILogger,
) IShareService {
	if eventPublisher == nil {
		eventPublisher = events.NopPublisher{}
	}
	return &shareService{
		uowFactory:     uowFactory,
		tokenTTL:       tokenTTL,
		eventPublisher: eventPublisher,
		metrics:        m,
		logger:         log,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *shareService) Issue(ctx context.Context, ownerId uuid.UUID, kind entity.ShareKind, subjectId uuid.UUID) (*entity.ShareToken, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subjectOwner, err := s.subjectOwner(ctx, uow, kind, subjectId)
	if err != nil {
		return nil, err
	}
	if subjectOwner != ownerId {
		return nil, apperror.Forbidden("you can only share your own " + kind.String())
	}

	repo := uow.ShareTokenRepository(kind)
	tokens, err := repo.FindAll(ctx, repo.SubjectSpec(subjectId), specification.OldestFirst{})
	if err != nil {
		return nil, apperror.Internal("failed to load share tokens", err)
	}

	now := s.now()
	if existing, ok := lo.Find(tokens, func(t *entity.ShareToken) bool { return !t.IsExpired(now) }); ok {
		s.metrics.ShareIssued(kind.String(), false)
		return existing, nil
	}

	token := &entity.ShareToken{
		Id:        uuid.New(),
		Kind:      repo.Kind(),
		SubjectId: subjectId,
		Token:     uuid.New().String(),
		CreatedBy: ownerId,
		CreatedAt: now,
	}
	if s.tokenTTL > 0 {
		expiresAt := now.Add(s.tokenTTL)
		token.ExpiresAt = &expiresAt
	}

	if err := repo.Create(ctx, token); err != nil {
		return nil, apperror.WriteFailed("failed to create share link", err)
	}

	s.metrics.ShareIssued(kind.String(), true)
	s.logger.Info("SHARE", "Share token created", map[string]interface{}{
		"share_type": kind.String(),
		"subject_id": subjectId.String(),
		"user_id":    ownerId.String(),
	})

	evt := events.New(events.ShareCreated, map[string]interface{}{
		"share_id":   token.Id.String(),
		"share_type": kind.String(),
		"subject_id": subjectId.String(),
		"created_by": ownerId.String(),
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("SHARE", "Failed to publish share event", map[string]interface{}{"error": err.Error()})
	}

	return token, nil
}

func (s *shareService) subjectOwner(ctx context.Context, uow unitofwork.UnitOfWork, kind entity.ShareKind, subjectId uuid.UUID) (uuid.UUID, error) {
	switch kind {
	case entity.ShareKindPage:
		page, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: subjectId})
		if err != nil {
			return uuid.Nil, apperror.Internal("failed to load page", err)
		}
		if page == nil {
			return uuid.Nil, apperror.NotFound("page not found")
		}
		return page.UserId, nil
	case entity.ShareKindNote:
		note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: subjectId})
		if err != nil {
			return uuid.Nil, apperror.Internal("failed to load note", err)
		}
		if note == nil {
			return uuid.Nil, apperror.NotFound("note not found")
		}
		return note.UserId, nil
	}
	return uuid.Nil, apperror.Validation("invalid share type")
}

// Resolve is the only lookup of share rows that skips the ownership filter.
func (s *shareService) Resolve(ctx context.Context, kind entity.ShareKind, token string) (*entity.ShareToken, error) {
	if token == "" {
		return nil, apperror.NotFound(shareNotFoundMessage)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	share, err := uow.ShareTokenRepository(kind).FindOne(ctx, specification.ByToken{Token: token})
	if err != nil {
		return nil, apperror.Internal("failed to resolve share link", err)
	}
	if share == nil || share.IsExpired(s.now()) {
		return nil, apperror.NotFound(shareNotFoundMessage)
	}

	return share, nil
}

func (s *shareService) GetSharedPage(ctx context.Context, token string) (*dto.SharedPageResponse, error) {
	share, err := s.Resolve(ctx, entity.ShareKindPage, token)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	page, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: share.SubjectId})
	if err != nil {
		return nil, apperror.Internal("failed to load shared page", err)
	}
	if page == nil {
		return nil, apperror.NotFound(shareNotFoundMessage)
	}

	notes, err := uow.NoteRepository().FindAll(ctx,
		specification.ByPageID{PageID: page.Id},
		specification.ByTimestampOrder{},
	)
	if err != nil {
		return nil, apperror.Internal("failed to load shared notes", err)
	}

	return &dto.SharedPageResponse{
		ShareToken:  share.Token,
		Title:       page.Title,
		Description: page.Description,
		Video:       sharedVideo(page),
		Notes: lo.Map(notes, func(n *entity.Note, _ int) dto.SharedNote {
			return s.sharedNote(page.YoutubeVideoId, n)
		}),
	}, nil
}

func (s *shareService) GetSharedNote(ctx context.Context, token string) (*dto.SharedNoteResponse, error) {
	share, err := s.Resolve(ctx, entity.ShareKindNote, token)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.ByID{ID: share.SubjectId})
	if err != nil {
		return nil, apperror.Internal("failed to load shared note", err)
	}
	if note == nil {
		return nil, apperror.NotFound(shareNotFoundMessage)
	}

	page, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: note.PageId})
	if err != nil {
		return nil, apperror.Internal("failed to load shared page", err)
	}
	if page == nil {
		return nil, apperror.NotFound(shareNotFoundMessage)
	}

	return &dto.SharedNoteResponse{
		ShareToken: share.Token,
		PageTitle:  page.Title,
		Video:      sharedVideo(page),
		Note:       s.sharedNote(page.YoutubeVideoId, note),
	}, nil
}

func sharedVideo(page *entity.Page) dto.SharedVideo {
	return dto.SharedVideo{
		YoutubeVideoId:  page.YoutubeVideoId,
		VideoTitle:      page.VideoTitle,
		ChannelName:     page.ChannelName,
		ThumbnailURL:    page.ThumbnailURL,
		DurationSeconds: page.DurationSeconds,
		WatchURL:        youtube.WatchURL(page.YoutubeVideoId, 0),
	}
}

func (s *shareService) sharedNote(videoId string, note *entity.Note) dto.SharedNote {
	html, err := markdown.Render(note.Content)
	if err != nil {
		s.logger.Warn("SHARE", "Failed to render note markdown", map[string]interface{}{
			"note_id": note.Id.String(),
			"error":   err.Error(),
		})
	}
	return dto.SharedNote{
		Content:          note.Content,
		ContentHTML:      html,
		TimestampSeconds: note.TimestampSeconds,
		WatchURL:         youtube.WatchURL(videoId, note.TimestampSeconds),
	}
}
