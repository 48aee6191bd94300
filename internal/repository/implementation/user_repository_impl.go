package implementation

import (
	"context"
	"errors"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/mapper"
	"vidnotes-be/internal/model"
	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, user *entity.User) error {
	m := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(m)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx), specs...)
}

func (r *UserRepositoryImpl) FindOneUnscoped(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.findOne(r.db.WithContext(ctx).Unscoped(), specs...)
}

func (r *UserRepositoryImpl) findOne(db *gorm.DB, specs ...specification.Specification) (*entity.User, error) {
	var m model.User
	query := applySpecifications(db, specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UserRepositoryImpl) Restore(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Model(&model.User{}).Where("id = ?", id).Update("deleted_at", nil).Error
}

// SaveUserProvider keeps one row per (provider_name, provider_user_id) and refreshes the avatar.
func (r *UserRepositoryImpl) SaveUserProvider(ctx context.Context, provider *entity.UserProvider) error {
	var existing model.UserProvider
	err := specification.ByProvider{Name: provider.ProviderName, ProviderUserID: provider.ProviderUserId}.
		Apply(r.db.WithContext(ctx)).
		First(&existing).Error
	if err == nil {
		provider.Id = existing.Id
		return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"user_id":    provider.UserId,
			"avatar_url": provider.AvatarURL,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(r.mapper.ProviderToModel(provider)).Error)
}
