package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts the differences between the supported database engines
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN builds the data source name for the connection
	DSN(cfg DialectConfig) string

	// RewriteQuery converts ? placeholders to the engine's syntax if needed
	RewriteQuery(query string) string

	// SupportsLastInsertID reports whether the driver implements LastInsertId
	SupportsLastInsertID() bool

	// ConfigureConnection applies engine-specific connection settings
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir returns the migrations subdirectory for this engine
	MigrationsSubdir() string
}

// DialectConfig holds the connection parameters a dialect may need
type DialectConfig struct {
	// Path is used by SQLite
	Path string

	// URL is used by PostgreSQL and MySQL
	URL string
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	counter := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		counter++
		return "$" + strconv.Itoa(counter)
	})
}
