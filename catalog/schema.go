package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Driver names accepted by Open
const (
	DriverSQLite3  = "sqlite3"
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

// normalizeDriver maps driver aliases to registered database/sql driver names
func normalizeDriver(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "sqlite3", "sqlite":
		return DriverSQLite3, nil
	case "pgx", "postgres", "postgresql":
		return DriverPostgres, nil
	case "mysql", "mariadb":
		return DriverMySQL, nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnsupportedDriver, driver)
}

// Every statement is kept portable across sqlite3, PostgreSQL and MySQL.
// TEXT columns stay out of primary keys for MySQL.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS structscan_runs (
		id VARCHAR(36) PRIMARY KEY,
		source VARCHAR(1024) NOT NULL,
		created_at VARCHAR(40) NOT NULL,
		declaration_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS structscan_declarations (
		run_id VARCHAR(36) NOT NULL,
		seq INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		attribute VARCHAR(255) NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS structscan_params (
		run_id VARCHAR(36) NOT NULL,
		declaration_seq INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		param_value TEXT NOT NULL,
		PRIMARY KEY (run_id, declaration_seq, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS structscan_fields (
		run_id VARCHAR(36) NOT NULL,
		declaration_seq INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		name VARCHAR(255) NOT NULL,
		field_type VARCHAR(255) NOT NULL,
		doc_comment TEXT NOT NULL,
		PRIMARY KEY (run_id, declaration_seq, seq)
	)`,
}

// Migrate creates the catalog tables when they do not exist yet
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate catalog: %w", err)
		}
	}

	return nil
}

// rebind rewrites ? placeholders into the driver's placeholder style
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}

	var builder strings.Builder

	n := 0

	for _, r := range query {
		if r == '?' {
			n++

			builder.WriteByte('$')
			builder.WriteString(strconv.Itoa(n))

			continue
		}

		builder.WriteRune(r)
	}

	return builder.String()
}
