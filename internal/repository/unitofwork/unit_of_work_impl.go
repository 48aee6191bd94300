package unitofwork

import (
	"context"
	"fmt"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ProfileRepository() contract.ProfileRepository {
	return implementation.NewProfileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotebookRepository() contract.NotebookRepository {
	return implementation.NewNotebookRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PageRepository() contract.PageRepository {
	return implementation.NewPageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NoteRepository() contract.NoteRepository {
	return implementation.NewNoteRepository(u.getDB())
}

// ShareTokenRepository picks the table for kind. Kinds are validated at the edge,
// so anything other than note falls to the page table.
func (u *UnitOfWorkImpl) ShareTokenRepository(kind entity.ShareKind) contract.ShareTokenRepository {
	if kind == entity.ShareKindNote {
		return implementation.NewNoteShareRepository(u.getDB())
	}
	return implementation.NewPageShareRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ForkEventRepository() contract.ForkEventRepository {
	return implementation.NewForkEventRepository(u.getDB())
}
