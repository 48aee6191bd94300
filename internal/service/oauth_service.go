package service

import (
	"context"
	"strings"
	"time"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/pkg/oauthstate"
	"vidnotes-be/internal/pkg/serverutils"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IOAuthService interface {
	// GetLoginURL starts a login and remembers shareCtx (may be nil) for the callback.
	GetLoginURL(ctx context.Context, provider string, shareCtx *entity.ShareContext) (string, error)
	// TakeLogin consumes the pending login stored under state.
	TakeLogin(ctx context.Context, state string) (oauthstate.Login, bool)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error)
}

type oauthService struct {
	uowFactory      unitofwork.RepositoryFactory
	providers       map[string]IdentityProvider
	defaultProvider string
	stateStore      oauthstate.Store
	signer          *serverutils.TokenSigner
	logger          logger.ILogger
}

// NewOAuthService registers providers by name; the first one is used when no name is given.
func NewOAuthService(
	uowFactory unitofwork.RepositoryFactory,
	stateStore oauthstate.Store,
	signer *serverutils.TokenSigner,
	log logger.ILogger,
	providers ...IdentityProvider,
) IOAuthService {
	s := &oauthService{
		uowFactory: uowFactory,
		providers:  make(map[string]IdentityProvider, len(providers)),
		stateStore: stateStore,
		signer:     signer,
		logger:     log,
	}
	for _, p := range providers {
		if s.defaultProvider == "" {
			s.defaultProvider = p.Name()
		}
		s.providers[p.Name()] = p
	}
	return s
}

func (s *oauthService) provider(name string) (IdentityProvider, error) {
	if name == "" {
		name = s.defaultProvider
	}
	p, ok := s.providers[strings.ToLower(name)]
	if !ok {
		return nil, apperror.Validation("unsupported provider")
	}
	return p, nil
}

func (s *oauthService) GetLoginURL(ctx context.Context, provider string, shareCtx *entity.ShareContext) (string, error) {
	p, err := s.provider(provider)
	if err != nil {
		return "", err
	}

	state, err := oauthstate.NewState()
	if err != nil {
		return "", apperror.Internal("failed to generate state", err)
	}
	if err := s.stateStore.Save(ctx, state, oauthstate.Login{Provider: p.Name(), Share: shareCtx}); err != nil {
		return "", apperror.Internal("failed to store login state", err)
	}

	return p.AuthCodeURL(state), nil
}

func (s *oauthService) TakeLogin(ctx context.Context, state string) (oauthstate.Login, bool) {
	if state == "" {
		return oauthstate.Login{}, false
	}
	login, found, err := s.stateStore.Take(ctx, state)
	if err != nil {
		s.logger.Warn("OAUTH", "Failed to read login state", map[string]interface{}{"error": err.Error()})
		return oauthstate.Login{}, false
	}
	return login, found
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.LoginResponse, error) {
	p, err := s.provider(provider)
	if err != nil {
		return nil, err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Unauthorized("login failed").Wrap(err)
	}

	user, isNew, err := s.upsertUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   identity.Provider,
		ProviderUserId: identity.ProviderUserId,
		AvatarURL:      identity.AvatarURL,
		CreatedAt:      time.Now().UTC(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, apperror.WriteFailed("failed to save provider info", err)
	}

	signed, err := s.signer.Sign(user.Id)
	if err != nil {
		return nil, apperror.Internal("failed to sign session token", err)
	}

	s.logger.Info("OAUTH", "User signed in", map[string]interface{}{
		"user_id":  user.Id.String(),
		"provider": identity.Provider,
		"new_user": isNew,
	})

	return &dto.LoginResponse{
		AccessToken: signed,
		IsNewUser:   isNew,
		User: dto.UserDTO{
			Id:        user.Id,
			Email:     user.Email,
			FullName:  user.FullName,
			AvatarURL: user.AvatarURL,
		},
	}, nil
}

// upsertUser finds the account by email, reactivating soft-deleted users, and creates it otherwise.
func (s *oauthService) upsertUser(ctx context.Context, identity *entity.ExternalIdentity) (*entity.User, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	byEmail := specification.ByEmail{Email: identity.Email}

	user, err := uow.UserRepository().FindOne(ctx, byEmail)
	if err != nil {
		return nil, false, apperror.Internal("failed to load user", err)
	}

	if user == nil {
		user, err = uow.UserRepository().FindOneUnscoped(ctx, byEmail)
		if err != nil {
			return nil, false, apperror.Internal("failed to load user", err)
		}
		if user != nil {
			if err := uow.UserRepository().Restore(ctx, user.Id); err != nil {
				return nil, false, apperror.WriteFailed("failed to restore user", err)
			}
			s.logger.Info("OAUTH", "Reactivated soft-deleted user", map[string]interface{}{"user_id": user.Id.String()})
		}
	}

	if user != nil {
		if user.AvatarURL == nil && identity.AvatarURL != "" {
			avatar := identity.AvatarURL
			user.AvatarURL = &avatar
			user.UpdatedAt = time.Now().UTC()
			if err := uow.UserRepository().Update(ctx, user); err != nil {
				return nil, false, apperror.WriteFailed("failed to update user", err)
			}
		}
		return user, false, nil
	}

	now := time.Now().UTC()
	user = &entity.User{
		Id:        uuid.New(),
		Email:     identity.Email,
		FullName:  identity.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if identity.AvatarURL != "" {
		avatar := identity.AvatarURL
		user.AvatarURL = &avatar
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, false, apperror.Internal("failed to start transaction", err)
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		_ = uow.Rollback()
		return nil, false, apperror.WriteFailed("failed to create user", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, false, apperror.WriteFailed("failed to create user", err)
	}

	return user, true, nil
}
