package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/AlexTLDR/wedding/internal/config"
	"github.com/AlexTLDR/wedding/internal/database"
	"github.com/AlexTLDR/wedding/internal/utils"
)

func main() {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.DatabaseType, database.DialectConfig{Path: cfg.DatabasePath, URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	guests, err := db.ListGuests(ctx)
	if err != nil {
		log.Fatalf("Failed to list guests: %v", err)
	}

	fmt.Printf("Found %d guests to process (region %s)\n", len(guests), cfg.PhoneRegion)

	// Normalize each phone number
	updated := 0
	failed := 0
	blank := 0
	for _, g := range guests {
		if g.Phone == "" {
			blank++
			continue
		}
		normalized, err := utils.NormalizePhoneNumber(g.Phone, cfg.PhoneRegion)
		if err != nil {
			log.Printf("Failed to normalize phone %q (guest %d): %v", g.Phone, g.ID, err)
			failed++
			continue
		}

		// Only update if the phone number changed
		if normalized != g.Phone {
			old := g.Phone
			g.Phone = normalized
			if err := db.UpdateGuest(ctx, *g); err != nil {
				log.Printf("Failed to update phone for guest %d: %v", g.ID, err)
				failed++
				continue
			}
			fmt.Printf("Updated guest %d: %q -> %q\n", g.ID, old, normalized)
			updated++
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total: %d\n", len(guests))
	fmt.Printf("  Updated: %d\n", updated)
	fmt.Printf("  Failed: %d\n", failed)
	fmt.Printf("  Without phone: %d\n", blank)
	fmt.Printf("  Unchanged: %d\n", len(guests)-updated-failed-blank)
}
