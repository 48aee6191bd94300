package contract

import (
	"context"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/specification"
)

type ForkEventRepository interface {
	Create(ctx context.Context, event *entity.ForkEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ForkEvent, error)
}
