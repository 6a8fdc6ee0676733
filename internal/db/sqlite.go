// Package db provides the SQLite metadata store: connection setup and
// embedded schema migrations.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

// Open modes.
const (
	ModeRead  = "read"
	ModeWrite = "write"
)

const (
	busyTimeoutMS = 5000
	readPoolSize  = 4
	pingTimeout   = 5 * time.Second
)

// storeTables must all exist for a file to count as a metadata store.
var storeTables = []string{"sqlgen_tables", "sqlgen_columns"}

// OpenSQLite opens a pool on the SQLite file at path.
//
// Write mode creates the file if needed, switches it to WAL and serializes
// writers on a single connection. Read mode opens the file read-only and
// never creates it; maxOpen sizes the pool, 0 meaning the default of 4.
func OpenSQLite(path, mode string, maxOpen int) (*sql.DB, error) {
	dsn, err := buildDSN(path, mode)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	if mode == ModeWrite {
		maxOpen = 1
	} else if maxOpen <= 0 {
		maxOpen = readPoolSize
	}
	conn.SetMaxOpenConns(maxOpen)
	conn.SetMaxIdleConns(maxOpen)
	conn.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	return conn, nil
}

// OpenStore opens the metadata store at path. Write mode migrates the
// schema to the latest version; read mode requires the store tables to be
// present already.
func OpenStore(path, mode string) (*sql.DB, error) {
	conn, err := OpenSQLite(path, mode, 0)
	if err != nil {
		return nil, err
	}

	if mode == ModeWrite {
		err = RunMigrations(context.Background(), conn)
	} else {
		err = checkStoreTables(conn, path)
	}
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

func checkStoreTables(conn *sql.DB, path string) error {
	for _, name := range storeTables {
		var n int
		err := conn.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
		if err != nil {
			return fmt.Errorf("inspect sqlite %q: %w", path, err)
		}
		if n == 0 {
			return fmt.Errorf("%q is not a sqlgen metadata store: table %s is missing", path, name)
		}
	}
	return nil
}

// buildDSN turns a file path into a go-sqlite3 URI for the given mode.
func buildDSN(path, mode string) (string, error) {
	q := url.Values{}
	q.Set("_busy_timeout", fmt.Sprint(busyTimeoutMS))
	q.Set("_foreign_keys", "on")

	switch mode {
	case ModeWrite:
		q.Set("mode", "rwc")
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
		q.Set("_txlock", "immediate")
	case ModeRead:
		q.Set("mode", "ro")
	default:
		return "", fmt.Errorf("invalid SQLite mode %q: want %q or %q", mode, ModeRead, ModeWrite)
	}
	return "file:" + url.PathEscape(path) + "?" + q.Encode(), nil
}
