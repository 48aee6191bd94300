package implementation_test

import (
	"context"
	"testing"
	"time"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareTokenRepository_TablePerKind(t *testing.T) {
	ctx := context.Background()
	factory, _ := testutil.NewFactory(t)
	uow := factory.NewUnitOfWork(ctx)
	now := time.Now().UTC()

	userId := uuid.New()
	require.NoError(t, uow.UserRepository().Create(ctx, &entity.User{Id: userId, Email: "a@example.com", FullName: "A", CreatedAt: now, UpdatedAt: now}))
	notebook := &entity.Notebook{Id: uuid.New(), Name: "N", UserId: userId, CreatedAt: now}
	require.NoError(t, uow.NotebookRepository().Create(ctx, notebook))
	page := &entity.Page{Id: uuid.New(), NotebookId: notebook.Id, UserId: userId, Title: "P", YoutubeVideoId: "dQw4w9WgXcQ", CreatedAt: now}
	require.NoError(t, uow.PageRepository().Create(ctx, page))
	note := &entity.Note{Id: uuid.New(), PageId: page.Id, UserId: userId, Content: "n", CreatedAt: now}
	require.NoError(t, uow.NoteRepository().Create(ctx, note))

	pages := uow.ShareTokenRepository(entity.ShareKindPage)
	notes := uow.ShareTokenRepository(entity.ShareKindNote)
	assert.Equal(t, entity.ShareKindPage, pages.Kind())
	assert.Equal(t, entity.ShareKindNote, notes.Kind())

	token := &entity.ShareToken{Id: uuid.New(), Kind: notes.Kind(), SubjectId: note.Id, Token: "note-tok", CreatedBy: userId, CreatedAt: now}
	require.NoError(t, notes.Create(ctx, token))

	found, err := notes.FindOne(ctx, specification.ByToken{Token: "note-tok"})
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, entity.ShareKindNote, found.Kind)
	assert.Equal(t, note.Id, found.SubjectId)

	missing, err := pages.FindOne(ctx, specification.ByToken{Token: "note-tok"})
	require.NoError(t, err)
	assert.Nil(t, missing)

	bySubject, err := notes.FindAll(ctx, notes.SubjectSpec(note.Id))
	require.NoError(t, err)
	assert.Len(t, bySubject, 1)
}
