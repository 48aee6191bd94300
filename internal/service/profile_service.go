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

	"github.com/google/uuid"
)

type IProfileService interface {
	// Exists reports whether userId finished onboarding.
	Exists(ctx context.Context, userId uuid.UUID) (bool, error)
	Me(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error)
	Setup(ctx context.Context, userId uuid.UUID, req *dto.SetupProfileRequest) (*dto.SetupProfileResponse, error)
}

type profileService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProfileService(uowFactory unitofwork.RepositoryFactory) IProfileService {
	return &profileService{
		uowFactory: uowFactory,
	}
}

func (s *profileService) Exists(ctx context.Context, userId uuid.UUID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	count, err := uow.ProfileRepository().Count(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return false, apperror.Internal("failed to check profile", err)
	}
	return count > 0, nil
}

func (s *profileService) Me(ctx context.Context, userId uuid.UUID) (*dto.ProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to load profile", err)
	}

	return toProfileResponse(user, profile), nil
}

func (s *profileService) Setup(ctx context.Context, userId uuid.UUID, req *dto.SetupProfileRequest) (*dto.SetupProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	profile, err := uow.ProfileRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return nil, apperror.Internal("failed to load profile", err)
	}

	now := time.Now().UTC()
	displayName := strings.TrimSpace(req.DisplayName)
	if profile == nil {
		profile = &entity.Profile{
			UserId:      userId,
			DisplayName: displayName,
			OnboardedAt: now,
			CreatedAt:   now,
		}
		if err := uow.ProfileRepository().Create(ctx, profile); err != nil {
			return nil, apperror.WriteFailed("failed to create profile", err)
		}
	} else {
		profile.DisplayName = displayName
		profile.UpdatedAt = &now
		if err := uow.ProfileRepository().Update(ctx, profile); err != nil {
			return nil, apperror.WriteFailed("failed to update profile", err)
		}
	}

	res := &dto.SetupProfileResponse{Profile: toProfileResponse(user, profile)}
	if shareCtx := entity.NewShareContext(req.ShareToken, req.ShareType); shareCtx != nil {
		res.PendingFork = &dto.PendingFork{
			ShareToken: shareCtx.Token,
			ShareType:  shareCtx.Kind.String(),
		}
	}
	return res, nil
}

func toProfileResponse(user *entity.User, profile *entity.Profile) *dto.ProfileResponse {
	res := &dto.ProfileResponse{
		UserId:    user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
	}
	if profile != nil {
		onboardedAt := profile.OnboardedAt
		res.DisplayName = profile.DisplayName
		res.Onboarded = true
		res.OnboardedAt = &onboardedAt
	}
	return res
}
