package main

import (
	"log"
	"os"

	"vidnotes-be/internal/model"
	"vidnotes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn, logger.Warn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// 3. AutoMigrate; the partial unique indexes come from the model tags
	models := model.All()
	color.Cyan("Step 1: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 4. Verify the fork dedup indexes exist, older deployments may predate them
	color.Cyan("Step 2: Checking fork dedup indexes...")
	for _, idx := range []struct {
		model interface{}
		name  string
	}{
		{&model.Note{}, "uq_notes_page_source_note"},
		{&model.Page{}, "uq_pages_user_video_fork"},
	} {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Migrator().CreateIndex(idx.model, idx.name); err != nil {
			color.Red("Error: Failed to create %s: %v", idx.name, err)
			os.Exit(1)
		}
		color.Yellow("Created missing index %s", idx.name)
	}

	color.Green("Success: Database migration completed.")
}
