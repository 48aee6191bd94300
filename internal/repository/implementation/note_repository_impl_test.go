package implementation_test

import (
	"context"
	"testing"
	"time"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/contract"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteRepository_ForkDedupIndex(t *testing.T) {
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

	source := &entity.Note{Id: uuid.New(), PageId: page.Id, UserId: userId, Content: "src"}

	first := source.ForkTo(userId, page.Id, "tok")
	require.NoError(t, uow.NoteRepository().Create(ctx, first))

	err := uow.NoteRepository().Create(ctx, source.ForkTo(userId, page.Id, "tok"))
	assert.ErrorIs(t, err, contract.ErrDuplicate)

	t.Run("hand written notes are not constrained", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			n := &entity.Note{Id: uuid.New(), PageId: page.Id, UserId: userId, Content: "mine", CreatedAt: now}
			require.NoError(t, uow.NoteRepository().Create(ctx, n))
		}
	})

	t.Run("deleted forks free the slot", func(t *testing.T) {
		require.NoError(t, uow.NoteRepository().Delete(ctx, first.Id))
		require.NoError(t, uow.NoteRepository().Create(ctx, source.ForkTo(userId, page.Id, "tok")))

		count, err := uow.NoteRepository().Count(ctx, specification.ByPageID{PageID: page.Id}, specification.HasSourceNote{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
