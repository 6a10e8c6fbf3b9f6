package database

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// ER_ROW_IS_REFERENCED_2 and ER_NO_REFERENCED_ROW_2.
const (
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// MySQLDialect implements Dialect for MySQL
type MySQLDialect struct{}

// NewMySQLDialect creates a new MySQL dialect
func NewMySQLDialect() *MySQLDialect {
	return &MySQLDialect{}
}

func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// DSN makes sure DATETIME columns scan into time.Time and that UPDATE
// reports matched rows rather than changed rows.
func (d *MySQLDialect) DSN(config DialectConfig) string {
	dsn := config.URL
	for _, param := range []string{"parseTime=true", "clientFoundRows=true"} {
		name := param[:strings.Index(param, "=")+1]
		if strings.Contains(dsn, name) {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + param
		} else {
			dsn += "?" + param
		}
	}
	return dsn
}

func (d *MySQLDialect) GooseDialect() string {
	return "mysql"
}

func (d *MySQLDialect) MigrationsDir() string {
	return "migrations/mysql"
}

func (d *MySQLDialect) RewriteQuery(query string) string {
	// MySQL uses ? placeholders like SQLite, no rewrite needed
	return query
}

func (d *MySQLDialect) SupportsLastInsertId() bool {
	return true
}

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
	return nil
}

func (d *MySQLDialect) IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		return false
	}
	return me.Number == mysqlRowIsReferenced || me.Number == mysqlNoReferencedRow
}
