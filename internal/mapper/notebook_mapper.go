package mapper

import (
	"time"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/model"

	"gorm.io/gorm"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}
	return &entity.Notebook{
		Id:        n.Id,
		Name:      n.Name,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAtPtr(n.UpdatedAt),
		DeletedAt: deletedAtPtr(n.DeletedAt),
		IsDeleted: n.DeletedAt.Valid,
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}
	return &model.Notebook{
		Id:        n.Id,
		Name:      n.Name,
		UserId:    n.UserId,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAtValue(n.UpdatedAt),
		DeletedAt: toGormDeletedAt(n.DeletedAt, n.IsDeleted),
	}
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

// Note: gorm.DeletedAt is struct { Time time.Time; Valid bool }
func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}

func toGormDeletedAt(deletedAt *time.Time, isDeleted bool) gorm.DeletedAt {
	if deletedAt != nil {
		return gorm.DeletedAt{Time: *deletedAt, Valid: true}
	}
	if isDeleted {
		return gorm.DeletedAt{Time: time.Now(), Valid: true}
	}
	return gorm.DeletedAt{}
}

func updatedAtPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func updatedAtValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
