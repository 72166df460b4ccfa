package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/schema"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrUnsupportedDriver is returned by Open for drivers other than sqlite3
// and postgres.
var ErrUnsupportedDriver = errors.New("store: unsupported driver")

// Open connects to dsn and wraps the handle with the matching bun dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	var dialect schema.Dialect
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite":
		driver, dialect = DriverSQLite, sqlitedialect.New()
	case DriverPostgres, "pg":
		driver, dialect = DriverPostgres, pgdialect.New()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	db := bun.NewDB(sqlDB, dialect)
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
