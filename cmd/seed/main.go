// Command seed creates a demo account with one annotated video and prints its share link.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"vidnotes-be/internal/config"
	"vidnotes-be/internal/entity"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/repository/specification"
	"vidnotes-be/internal/repository/unitofwork"
	"vidnotes-be/internal/service"
	"vidnotes-be/pkg/database"
	"vidnotes-be/pkg/youtube"

	"github.com/fatih/color"
	"github.com/google/uuid"
	gormlogger "gorm.io/gorm/logger"
)

const demoEmail = "demo@vidnotes.local"

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, gormlogger.Warn)
	if err != nil {
		log.Fatalf("Error: Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: demoEmail})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if user != nil {
		color.Yellow("Demo user already exists (%s), nothing to seed", user.Id)
		return
	}

	now := time.Now().UTC()
	user = &entity.User{Id: uuid.New(), Email: demoEmail, FullName: "Demo User", CreatedAt: now, UpdatedAt: now}
	notebook := &entity.Notebook{Id: uuid.New(), Name: entity.DefaultNotebookName, UserId: user.Id, CreatedAt: now}

	videoId := "dQw4w9WgXcQ"
	page := &entity.Page{
		Id:              uuid.New(),
		NotebookId:      notebook.Id,
		UserId:          user.Id,
		Title:           "Demo lecture",
		YoutubeVideoId:  videoId,
		VideoTitle:      "Demo lecture",
		ChannelName:     "VidNotes",
		ThumbnailURL:    youtube.ThumbnailURL(videoId),
		DurationSeconds: 212,
		CreatedAt:       now,
	}
	notes := []*entity.Note{
		{Id: uuid.New(), PageId: page.Id, UserId: user.Id, Content: "**Intro** and agenda", TimestampSeconds: 0, CreatedAt: now},
		{Id: uuid.New(), PageId: page.Id, UserId: user.Id, Content: "Key idea:\n\n- first point\n- second point", TimestampSeconds: 43, CreatedAt: now},
		{Id: uuid.New(), PageId: page.Id, UserId: user.Id, Content: "Summary", TimestampSeconds: 180, CreatedAt: now},
	}

	if err := uow.Begin(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
	steps := []func() error{
		func() error { return uow.UserRepository().Create(ctx, user) },
		func() error { return uow.NotebookRepository().Create(ctx, notebook) },
		func() error { return uow.PageRepository().Create(ctx, page) },
	}
	for _, n := range notes {
		note := n
		steps = append(steps, func() error { return uow.NoteRepository().Create(ctx, note) })
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = uow.Rollback()
			log.Fatalf("Error: seeding failed: %v", err)
		}
	}
	if err := uow.Commit(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	shareService := service.NewShareService(uowFactory, cfg.Share.TokenTTL, nil, nil, logger.NewNopLogger())
	token, err := shareService.Issue(ctx, user.Id, entity.ShareKindPage, page.Id)
	if err != nil {
		log.Fatalf("Error: issuing share token failed: %v", err)
	}

	color.Green("Seeded demo user %s with %d notes", user.Email, len(notes))
	color.Cyan("Share link: %s/share/%s", cfg.App.ClientURL, token.Token)
}
