package unitofwork

import (
	"context"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ProfileRepository() contract.ProfileRepository
	NotebookRepository() contract.NotebookRepository
	PageRepository() contract.PageRepository
	NoteRepository() contract.NoteRepository
	ShareTokenRepository(kind entity.ShareKind) contract.ShareTokenRepository
	ForkEventRepository() contract.ForkEventRepository
}
