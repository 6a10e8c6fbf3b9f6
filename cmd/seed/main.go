// Command seed loads the RSVP question catalog into the database.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/logging"
)

//go:embed catalog.yaml
var defaultCatalog []byte

func main() {
	file := flag.String("file", "", "catalog YAML file (default: built-in catalog)")
	companions := flag.Bool("companions", false, "add companion choices to the \"+1\" question")
	flag.Parse()

	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logging.Init(cfg.LogLevel, "console"); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Sync()

	if err := run(context.Background(), cfg, *file, *companions); err != nil {
		logging.Log.Error("Seed failed", zap.Error(err))
		logging.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, file string, companions bool) error {
	var src io.Reader = bytes.NewReader(defaultCatalog)
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	catalog, err := parseCatalog(src)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DatabaseType, database.DialectConfig{Path: cfg.DatabasePath, URL: cfg.DatabaseURL})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	stats, err := seedCatalog(ctx, db, catalog)
	if err != nil {
		return err
	}
	logging.Log.Info("Catalog seeded",
		zap.Int("questions", len(catalog.Questions)),
		zap.Int("new_questions", stats.Questions),
		zap.Int("new_choices", stats.Choices),
	)

	if companions {
		if _, err := seedCompanions(ctx, db, cfg.CompanionMarker); err != nil {
			return err
		}
	}
	return nil
}
