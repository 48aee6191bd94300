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

type PageShareRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShareMapper
}

func NewPageShareRepository(db *gorm.DB) contract.ShareTokenRepository {
	return &PageShareRepositoryImpl{
		db:     db,
		mapper: mapper.NewShareMapper(),
	}
}

func (r *PageShareRepositoryImpl) Kind() entity.ShareKind {
	return entity.ShareKindPage
}

func (r *PageShareRepositoryImpl) SubjectSpec(subjectId uuid.UUID) specification.Specification {
	return specification.BySubjectID{Column: "page_id", ID: subjectId}
}

func (r *PageShareRepositoryImpl) Create(ctx context.Context, token *entity.ShareToken) error {
	m := r.mapper.ToPageShare(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*token = *r.mapper.PageShareToEntity(m)
	return nil
}

func (r *PageShareRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareToken, error) {
	var m model.PageShare
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PageShareToEntity(&m), nil
}

func (r *PageShareRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareToken, error) {
	var models []*model.PageShare
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*entity.ShareToken, len(models))
	for i, m := range models {
		result[i] = r.mapper.PageShareToEntity(m)
	}
	return result, nil
}

type NoteShareRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ShareMapper
}

func NewNoteShareRepository(db *gorm.DB) contract.ShareTokenRepository {
	return &NoteShareRepositoryImpl{
		db:     db,
		mapper: mapper.NewShareMapper(),
	}
}

func (r *NoteShareRepositoryImpl) Kind() entity.ShareKind {
	return entity.ShareKindNote
}

func (r *NoteShareRepositoryImpl) SubjectSpec(subjectId uuid.UUID) specification.Specification {
	return specification.BySubjectID{Column: "note_id", ID: subjectId}
}

func (r *NoteShareRepositoryImpl) Create(ctx context.Context, token *entity.ShareToken) error {
	m := r.mapper.ToNoteShare(token)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*token = *r.mapper.NoteShareToEntity(m)
	return nil
}

func (r *NoteShareRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareToken, error) {
	var m model.NoteShare
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.NoteShareToEntity(&m), nil
}

func (r *NoteShareRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareToken, error) {
	var models []*model.NoteShare
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*entity.ShareToken, len(models))
	for i, m := range models {
		result[i] = r.mapper.NoteShareToEntity(m)
	}
	return result, nil
}
