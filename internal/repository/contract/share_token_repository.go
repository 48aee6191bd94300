package contract

import (
	"context"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ShareTokenRepository is implemented once per share table. Kind reports which one.
type ShareTokenRepository interface {
	Kind() entity.ShareKind
	Create(ctx context.Context, token *entity.ShareToken) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ShareToken, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ShareToken, error)
	// SubjectSpec returns the specification matching rows that share subjectId.
	SubjectSpec(subjectId uuid.UUID) specification.Specification
}
