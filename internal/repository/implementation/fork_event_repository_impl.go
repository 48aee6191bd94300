package implementation

import (
	"context"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/mapper"
	"vidnotes-be/internal/model"
	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ForkEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ForkEventMapper
}

func NewForkEventRepository(db *gorm.DB) contract.ForkEventRepository {
	return &ForkEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewForkEventMapper(),
	}
}

func (r *ForkEventRepositoryImpl) Create(ctx context.Context, event *entity.ForkEvent) error {
	return translateError(r.db.WithContext(ctx).Create(r.mapper.ToModel(event)).Error)
}

func (r *ForkEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ForkEvent, error) {
	var models []*model.ForkEvent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*entity.ForkEvent, len(models))
	for i, m := range models {
		result[i] = r.mapper.ToEntity(m)
	}
	return result, nil
}
