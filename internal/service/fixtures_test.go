package service

import (
	"context"
	"testing"
	"time"

	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// base is the creation time of seeded rows; each helper call advances it so
// OldestFirst ordering is deterministic.
var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type seeder struct {
	t     *testing.T
	uow   unitofwork.UnitOfWork
	clock time.Time
}

func newSeeder(t *testing.T, factory unitofwork.RepositoryFactory) *seeder {
	return &seeder{t: t, uow: factory.NewUnitOfWork(context.Background()), clock: base}
}

func (s *seeder) tick() time.Time {
	s.clock = s.clock.Add(time.Minute)
	return s.clock
}

func (s *seeder) user(email string) *entity.User {
	now := s.tick()
	u := &entity.User{Id: uuid.New(), Email: email, FullName: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(s.t, s.uow.UserRepository().Create(context.Background(), u))
	return u
}

func (s *seeder) notebook(userId uuid.UUID, name string) *entity.Notebook {
	nb := &entity.Notebook{Id: uuid.New(), Name: name, UserId: userId, CreatedAt: s.tick()}
	require.NoError(s.t, s.uow.NotebookRepository().Create(context.Background(), nb))
	return nb
}

func (s *seeder) page(nb *entity.Notebook, videoId string) *entity.Page {
	p := &entity.Page{
		Id:              uuid.New(),
		NotebookId:      nb.Id,
		UserId:          nb.UserId,
		Title:           "Lecture " + videoId,
		YoutubeVideoId:  videoId,
		VideoTitle:      "Video " + videoId,
		ChannelName:     "Channel",
		DurationSeconds: 600,
		CreatedAt:       s.tick(),
	}
	require.NoError(s.t, s.uow.PageRepository().Create(context.Background(), p))
	return p
}

func (s *seeder) note(p *entity.Page, content string, ts int) *entity.Note {
	n := &entity.Note{
		Id:               uuid.New(),
		PageId:           p.Id,
		UserId:           p.UserId,
		Content:          content,
		TimestampSeconds: ts,
		CreatedAt:        s.tick(),
	}
	require.NoError(s.t, s.uow.NoteRepository().Create(context.Background(), n))
	return n
}
