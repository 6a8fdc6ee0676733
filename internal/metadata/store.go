package metadata

import (
	"context"
	"fmt"

	"sqlgen/internal/db"
	"sqlgen/internal/db/repository"
)

// OpenSQLite loads a catalog from a SQLite metadata store.
func OpenSQLite(ctx context.Context, path string) (*Catalog, error) {
	conn, err := db.OpenStore(path, db.ModeRead)
	if err != nil {
		return nil, err
	}
	defer conn.Close() //nolint:errcheck

	tables, columns, err := repository.NewMetadataRepo(conn).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load metadata store %q: %w", path, err)
	}
	return NewCatalog(tables, columns)
}

// SaveSQLite replaces the contents of the SQLite metadata store at path with
// c, creating and migrating the file when needed.
func SaveSQLite(ctx context.Context, path string, c *Catalog) error {
	conn, err := db.OpenStore(path, db.ModeWrite)
	if err != nil {
		return err
	}
	defer conn.Close() //nolint:errcheck

	repo := repository.NewMetadataRepo(conn)
	if err := repo.Replace(ctx, c.Tables(), c.AllColumns()); err != nil {
		return err
	}
	tables, _, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count metadata store %q: %w", path, err)
	}
	if int(tables) != len(c.Tables()) {
		return fmt.Errorf("metadata store %q holds %d table(s), expected %d", path, tables, len(c.Tables()))
	}
	return nil
}
