package service

import (
	"context"
	"testing"

	"vidnotes-be/internal/dto"
	"vidnotes-be/internal/pkg/apperror"
	"vidnotes-be/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageService(t *testing.T) {
	ctx := context.Background()
	factory, _ := testutil.NewFactory(t)
	seed := newSeeder(t, factory)
	owner := seed.user("owner@example.com")
	stranger := seed.user("stranger@example.com")
	nb := seed.notebook(owner.Id, "Work")

	svc := NewPageService(factory)

	t.Run("create from a watch URL", func(t *testing.T) {
		res, err := svc.Create(ctx, owner.Id, &dto.CreatePageRequest{
			NotebookId: nb.Id,
			VideoURL:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s",
			VideoTitle: "Never Gonna",
		})
		require.NoError(t, err)
		assert.Equal(t, "dQw4w9WgXcQ", res.YoutubeVideoId)
		assert.Equal(t, "Never Gonna", res.Title)
		assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg", res.ThumbnailURL)

		found, err := svc.FindByVideo(ctx, owner.Id, "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, res.Id, found.Id)
	})

	t.Run("rejects non youtube links", func(t *testing.T) {
		_, err := svc.Create(ctx, owner.Id, &dto.CreatePageRequest{NotebookId: nb.Id, VideoURL: "https://vimeo.com/1234"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("needs an owned notebook", func(t *testing.T) {
		_, err := svc.Create(ctx, stranger.Id, &dto.CreatePageRequest{NotebookId: nb.Id, YoutubeVideoId: "dQw4w9WgXcQ"})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("show returns notes in timestamp order", func(t *testing.T) {
		page := seed.page(nb, "9bZkp7q19f0")
		seed.note(page, "late", 300)
		seed.note(page, "early", 3)

		res, err := svc.Show(ctx, owner.Id, page.Id)
		require.NoError(t, err)
		require.Len(t, res.Notes, 2)
		assert.Equal(t, "early", res.Notes[0].Content)

		_, err = svc.Show(ctx, stranger.Id, page.Id)
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("find by video validates the id", func(t *testing.T) {
		_, err := svc.FindByVideo(ctx, owner.Id, "bad id!")
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})
}
