package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
)

// Dialect hides the differences between the supported SQL backends.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(config DialectConfig) string

	// GooseDialect is the dialect name understood by goose
	GooseDialect() string

	// MigrationsDir is the directory inside the embedded migrations FS
	MigrationsDir() string

	// RewriteQuery converts ? placeholders if the driver needs another syntax
	RewriteQuery(query string) string

	// SupportsLastInsertId returns true if the driver supports LastInsertId()
	SupportsLastInsertId() bool

	// ConfigureConnection applies pool and session settings
	ConfigureConnection(db *sql.DB) error

	// IsForeignKeyViolation reports whether err was raised by a foreign key
	// constraint, such as deleting a row that is still referenced
	IsForeignKeyViolation(err error) bool
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	// For SQLite
	Path string

	// For PostgreSQL/MySQL
	URL string
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	case "sqlite", "sqlite3", "":
		return NewSQLiteDialect(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", name)
	}
}

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, etc.
// Queries in this package never contain a literal question mark.
func rewritePlaceholdersToNumbered(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
