package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/internal/testutil"
	"vidnotes-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type recordingAudit struct {
	payloads [][]byte
}

func (a *recordingAudit) Publish(_ context.Context, payload []byte) error {
	a.payloads = append(a.payloads, payload)
	return nil
}

type forkFixture struct {
	factory unitofwork.RepositoryFactory
	seed    *seeder
	shares  IShareService
	forks   IForkService
	events  *recordingPublisher
	audit   *recordingAudit

	owner      *entity.User
	ownerPage  *entity.Page
	ownerNotes []*entity.Note
	receiver   *entity.User
}

func newForkFixture(t *testing.T) *forkFixture {
	factory, _ := testutil.NewFactory(t)
	seed := newSeeder(t, factory)
	log := logger.NewNopLogger()

	f := &forkFixture{
		factory: factory,
		seed:    seed,
		events:  &recordingPublisher{},
		audit:   &recordingAudit{},
	}
	f.shares = NewShareService(factory, 0, nil, nil, log)
	f.forks = NewForkService(factory, f.shares, f.events, f.audit, nil, log)

	f.owner = seed.user("owner@example.com")
	f.ownerPage = seed.page(seed.notebook(f.owner.Id, "Lectures"), "dQw4w9WgXcQ")
	f.ownerNotes = []*entity.Note{
		seed.note(f.ownerPage, "intro", 5),
		seed.note(f.ownerPage, "main point", 60),
	}
	f.receiver = seed.user("receiver@example.com")
	return f
}

func (f *forkFixture) share(t *testing.T, kind entity.ShareKind, subjectId uuid.UUID) string {
	token, err := f.shares.Issue(context.Background(), f.owner.Id, kind, subjectId)
	require.NoError(t, err)
	return token.Token
}

func (f *forkFixture) notesOn(t *testing.T, pageId uuid.UUID) []*entity.Note {
	uow := f.factory.NewUnitOfWork(context.Background())
	notes, err := uow.NoteRepository().FindAll(context.Background(),
		specification.ByPageID{PageID: pageId},
		specification.ByTimestampOrder{},
	)
	require.NoError(t, err)
	return notes
}

func TestForkService_ForkPage(t *testing.T) {
	ctx := context.Background()
	f := newForkFixture(t)
	token := f.share(t, entity.ShareKindPage, f.ownerPage.Id)

	res, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindPage, token)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NotesCopied)
	assert.False(t, res.AlreadyForked)
	assert.Equal(t, "Copied 2 note(s) into your notebook", res.Message)

	uow := f.factory.NewUnitOfWork(ctx)
	notebook, err := uow.NotebookRepository().FindOne(ctx, specification.ByID{ID: res.NotebookId})
	require.NoError(t, err)
	require.NotNil(t, notebook)
	assert.Equal(t, entity.DefaultNotebookName, notebook.Name)
	assert.Equal(t, f.receiver.Id, notebook.UserId)

	page, err := uow.PageRepository().FindOne(ctx, specification.ByID{ID: res.PageId})
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, f.receiver.Id, page.UserId)
	assert.Equal(t, f.ownerPage.YoutubeVideoId, page.YoutubeVideoId)
	require.NotNil(t, page.SourceShareType)
	assert.Equal(t, entity.ShareKindPage, *page.SourceShareType)
	require.NotNil(t, page.SourceShareToken)
	assert.Equal(t, token, *page.SourceShareToken)

	copied := f.notesOn(t, res.PageId)
	require.Len(t, copied, 2)
	for i, n := range copied {
		require.NotNil(t, n.SourceNoteId)
		assert.Equal(t, f.ownerNotes[i].Id, *n.SourceNoteId)
		assert.Equal(t, f.ownerNotes[i].Content, n.Content)
		assert.Equal(t, f.receiver.Id, n.UserId)
	}

	// Source stays untouched
	assert.Len(t, f.notesOn(t, f.ownerPage.Id), 2)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, events.ContentForked, f.events.events[0].EventType())

	require.Len(t, f.audit.payloads, 1)
	var audit dto.ForkAuditMessage
	require.NoError(t, json.Unmarshal(f.audit.payloads[0], &audit))
	assert.Equal(t, f.receiver.Id, audit.UserId)
	assert.Equal(t, "page", audit.ShareType)
	assert.Len(t, audit.CopiedNoteIds, 2)

	t.Run("second fork is a no-op", func(t *testing.T) {
		again, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindPage, token)
		require.NoError(t, err)
		assert.True(t, again.AlreadyForked)
		assert.Equal(t, 0, again.NotesCopied)
		assert.Equal(t, res.PageId, again.PageId)
		assert.Equal(t, res.NotebookId, again.NotebookId)
		assert.Equal(t, "This content is already in your notebook", again.Message)
		assert.Len(t, f.notesOn(t, res.PageId), 2)

		// Nothing new to announce
		assert.Len(t, f.events.events, 1)
		assert.Len(t, f.audit.payloads, 1)
	})
}

func TestForkService_NoteThenPage(t *testing.T) {
	ctx := context.Background()
	f := newForkFixture(t)
	noteToken := f.share(t, entity.ShareKindNote, f.ownerNotes[1].Id)
	pageToken := f.share(t, entity.ShareKindPage, f.ownerPage.Id)

	first, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindNote, noteToken)
	require.NoError(t, err)
	assert.Equal(t, 1, first.NotesCopied)

	second, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindPage, pageToken)
	require.NoError(t, err)
	assert.Equal(t, 1, second.NotesCopied)
	assert.Equal(t, first.PageId, second.PageId)

	notes := f.notesOn(t, first.PageId)
	require.Len(t, notes, 2)
	assert.Equal(t, "intro", notes[0].Content)
	assert.Equal(t, "main point", notes[1].Content)
}

func TestForkService_ReusesExistingVideoPage(t *testing.T) {
	ctx := context.Background()
	f := newForkFixture(t)

	notebook := f.seed.notebook(f.receiver.Id, "Mine")
	existing := f.seed.page(notebook, f.ownerPage.YoutubeVideoId)
	f.seed.note(existing, "my own thought", 30)
	// A newer page on the same video must not win
	f.seed.page(f.seed.notebook(f.receiver.Id, "Later"), f.ownerPage.YoutubeVideoId)

	token := f.share(t, entity.ShareKindNote, f.ownerNotes[0].Id)
	res, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindNote, token)
	require.NoError(t, err)

	assert.Equal(t, existing.Id, res.PageId)
	assert.Equal(t, notebook.Id, res.NotebookId)
	assert.Equal(t, 1, res.NotesCopied)

	notes := f.notesOn(t, existing.Id)
	require.Len(t, notes, 2)
	assert.Equal(t, "intro", notes[0].Content)
	assert.Equal(t, "my own thought", notes[1].Content)

	uow := f.factory.NewUnitOfWork(ctx)
	count, err := uow.NotebookRepository().Count(ctx, specification.UserOwnedBy{UserID: f.receiver.Id})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestForkService_ExistingNotebookIsUsed(t *testing.T) {
	ctx := context.Background()
	f := newForkFixture(t)
	oldest := f.seed.notebook(f.receiver.Id, "First")
	f.seed.notebook(f.receiver.Id, "Second")

	res, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindPage, f.share(t, entity.ShareKindPage, f.ownerPage.Id))
	require.NoError(t, err)
	assert.Equal(t, oldest.Id, res.NotebookId)
}

func TestForkService_OwnContent(t *testing.T) {
	ctx := context.Background()
	f := newForkFixture(t)
	token := f.share(t, entity.ShareKindPage, f.ownerPage.Id)

	res, err := f.forks.Fork(ctx, f.owner.Id, entity.ShareKindPage, token)
	require.NoError(t, err)
	assert.True(t, res.AlreadyForked)
	assert.Equal(t, f.ownerPage.Id, res.PageId)
	assert.Len(t, f.notesOn(t, f.ownerPage.Id), 2)
}

func TestForkService_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token", func(t *testing.T) {
		f := newForkFixture(t)
		_, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindPage, "nope")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("token of the other kind", func(t *testing.T) {
		f := newForkFixture(t)
		token := f.share(t, entity.ShareKindPage, f.ownerPage.Id)
		_, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindNote, token)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("shared note was deleted", func(t *testing.T) {
		f := newForkFixture(t)
		token := f.share(t, entity.ShareKindNote, f.ownerNotes[0].Id)

		uow := f.factory.NewUnitOfWork(ctx)
		require.NoError(t, uow.NoteRepository().Delete(ctx, f.ownerNotes[0].Id))

		_, err := f.forks.Fork(ctx, f.receiver.Id, entity.ShareKindNote, token)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Empty(t, f.audit.payloads)
	})
}
