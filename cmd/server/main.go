package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
	"github.com/AlexTLDR/wedding/internal/mailer"
	"github.com/AlexTLDR/wedding/internal/server"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env file (ignore error if a file doesn't exist)
	// Use Overload to force to overwrite any existing environment variables
	envErr := godotenv.Overload()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logging.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Sync()

	if envErr != nil {
		logging.Log.Info("No .env file loaded", zap.Error(envErr))
	}

	if err := run(cfg); err != nil {
		logging.Log.Error("Server failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Open(cfg.DatabaseType, database.DialectConfig{
		Path: cfg.DatabasePath,
		URL:  cfg.DatabaseURL,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	m, err := mailer.New(ctx, cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName)
	if err != nil {
		return err
	}
	if !m.Enabled() {
		logging.Log.Info("Email sending disabled, SES_FROM_EMAIL is not set")
	}

	srv := server.New(cfg, db, m)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logging.Log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
