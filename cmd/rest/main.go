package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vidnotes-be/internal/bootstrap"
	"vidnotes-be/internal/config"
	"vidnotes-be/internal/pkg/logger"
	"vidnotes-be/internal/server"
	"vidnotes-be/internal/tracer"
	"vidnotes-be/pkg/database"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Otel)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormLevel := gormlogger.Info
	if cfg.IsProduction() {
		gormLevel = gormlogger.Warn
	}
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, gormLevel)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	container := bootstrap.NewContainer(gormDB, cfg, sysLogger)
	defer container.Close()

	// 5. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 6. Run Server until a signal arrives
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
