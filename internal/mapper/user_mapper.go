package mapper

import (
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserMapper) ProviderToModel(p *entity.UserProvider) *model.UserProvider {
	return &model.UserProvider{
		Id:             p.Id,
		UserId:         p.UserId,
		ProviderName:   p.ProviderName,
		ProviderUserId: p.ProviderUserId,
		AvatarURL:      p.AvatarURL,
		CreatedAt:      p.CreatedAt,
	}
}

func (m *UserMapper) ProfileToEntity(p *model.Profile) *entity.Profile {
	if p == nil {
		return nil
	}
	return &entity.Profile{
		UserId:      p.UserId,
		DisplayName: p.DisplayName,
		OnboardedAt: p.OnboardedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAtPtr(p.UpdatedAt),
	}
}

func (m *UserMapper) ProfileToModel(p *entity.Profile) *model.Profile {
	return &model.Profile{
		UserId:      p.UserId,
		DisplayName: p.DisplayName,
		OnboardedAt: p.OnboardedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAtValue(p.UpdatedAt),
	}
}
