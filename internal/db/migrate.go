package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrator returns a goose provider over the embedded migrations.
func migrator(conn *sql.DB) (*goose.Provider, error) {
	dir, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, conn, dir)
	if err != nil {
		return nil, fmt.Errorf("metadata store migrations: %w", err)
	}
	return p, nil
}

// RunMigrations applies every pending metadata store migration.
func RunMigrations(ctx context.Context, conn *sql.DB) error {
	p, err := migrator(conn)
	if err != nil {
		return err
	}
	if _, err := p.Up(ctx); err != nil {
		return fmt.Errorf("migrate metadata store: %w", err)
	}
	return nil
}

// SchemaVersion is the latest migration applied to the store.
func SchemaVersion(ctx context.Context, conn *sql.DB) (int64, error) {
	p, err := migrator(conn)
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("metadata store version: %w", err)
	}
	return v, nil
}
