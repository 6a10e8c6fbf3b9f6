package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"
)

type Config struct {
	// Server
	Port    string
	BaseURL string

	// Database
	DatabaseType string
	DatabaseURL  string
	DatabasePath string

	// Admin auth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AdminEmails        []string
	AdminPasswordHash  string
	SessionSecret      string

	// Logging
	LogLevel  string
	LogFormat string

	// Event details shown on the invitation page
	CoupleNames  string
	EventDate    time.Time
	VenueName    string
	VenueAddress string
	Location     *time.Location

	// RSVP reconciliation
	CompanionMarker string
	PhoneRegion     string

	// Email (SES); disabled when SESFromEmail is empty
	SESRegion    string
	SESFromEmail string
	SESFromName  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		BaseURL:            strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),
		DatabaseType:       strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		DatabasePath:       getEnv("DATABASE_PATH", "./wedding.db"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionSecret:      getEnv("SESSION_SECRET", "change-me-in-production"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		CoupleNames:        getEnv("COUPLE_NAMES", "Олександр & Катерина"),
		VenueName:          getEnv("VENUE_NAME", ""),
		VenueAddress:       getEnv("VENUE_ADDRESS", ""),
		CompanionMarker:    getEnv("COMPANION_MARKER", "+1"),
		PhoneRegion:        strings.ToUpper(getEnv("PHONE_REGION", "UA")),
		SESRegion:          getEnv("SES_REGION", "eu-central-1"),
		SESFromEmail:       getEnv("SES_FROM_EMAIL", ""),
		SESFromName:        getEnv("SES_FROM_NAME", ""),
	}

	switch cfg.DatabaseType {
	case "sqlite", "sqlite3", "postgres", "postgresql", "mysql":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_TYPE %q", cfg.DatabaseType)
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "sqlite3" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for DATABASE_TYPE %q", cfg.DatabaseType)
	}

	// Parse admin emails
	cfg.AdminEmails = splitList(getEnv("ADMIN_EMAILS", ""))

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Europe/Kyiv"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	// Parse event date
	eventDate, err := time.ParseInLocation("2006-01-02T15:04", getEnv("EVENT_DATE", "2026-06-20T15:00"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_DATE format (want YYYY-MM-DDTHH:MM): %w", err)
	}
	cfg.EventDate = eventDate

	return cfg, nil
}

// IsAdminEmail reports whether email is on the ADMIN_EMAILS allow-list.
func (c *Config) IsAdminEmail(email string) bool {
	for _, adminEmail := range c.AdminEmails {
		if strings.EqualFold(email, adminEmail) {
			return true
		}
	}
	return false
}

// InvitationURL is the public link sent to a guest.
func (c *Config) InvitationURL(token string) string {
	return fmt.Sprintf("%s/Invitation/%s/", c.BaseURL, token)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
