package metadata

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"sqlgen/internal/domain"
	"sqlgen/internal/storage"
)

// SourceKind identifies a metadata backend.
type SourceKind string

// Supported metadata backends.
const (
	SourceYAML   SourceKind = "yaml"
	SourceSQLite SourceKind = "sqlite"
	SourceDuckDB SourceKind = "duckdb"
)

// Loader resolves metadata URIs to catalogs.
type Loader struct {
	Fetcher storage.Fetcher
	DuckDB  Filter
}

// ResolveSource classifies uri and returns the location the backend should
// open. sqlite:// and duckdb:// prefixes are stripped.
func ResolveSource(uri string) (SourceKind, string, error) {
	switch {
	case strings.HasPrefix(uri, "sqlite://"):
		return SourceSQLite, strings.TrimPrefix(uri, "sqlite://"), nil
	case strings.HasPrefix(uri, "duckdb://"):
		return SourceDuckDB, strings.TrimPrefix(uri, "duckdb://"), nil
	}

	switch strings.ToLower(path.Ext(uri)) {
	case ".yaml", ".yml":
		return SourceYAML, uri, nil
	case ".sqlite", ".sqlite3", ".db":
		return SourceSQLite, uri, nil
	case ".duckdb", ".ddb":
		return SourceDuckDB, uri, nil
	}
	return "", "", domain.ErrValidation("unsupported metadata source %q: use .yaml, .sqlite, .duckdb or a sqlite:// or duckdb:// URI", uri)
}

// Open loads the catalog at uri. YAML documents may live in object storage;
// SQLite and DuckDB sources must be local files.
func (l *Loader) Open(ctx context.Context, uri string) (*Catalog, error) {
	kind, loc, err := ResolveSource(uri)
	if err != nil {
		return nil, err
	}

	if kind != SourceYAML {
		if s := storage.Scheme(loc); s != "" && s != "file" {
			return nil, domain.ErrValidation("%s metadata must be a local file, got %q", kind, uri)
		}
		loc = strings.TrimPrefix(loc, "file://")
		if err := requireFile(loc); err != nil {
			return nil, err
		}
	}

	switch kind {
	case SourceSQLite:
		return OpenSQLite(ctx, loc)
	case SourceDuckDB:
		return OpenDuckDB(ctx, loc, l.DuckDB)
	default:
		fetcher := l.Fetcher
		if fetcher == nil {
			fetcher = storage.Local{}
		}
		rc, err := fetcher.Fetch(ctx, loc)
		if err != nil {
			return nil, err
		}
		defer rc.Close() //nolint:errcheck
		return Decode(rc)
	}
}

// Open loads the catalog at uri from the local filesystem.
func Open(ctx context.Context, uri string) (*Catalog, error) {
	return (&Loader{}).Open(ctx, uri)
}

// requireFile keeps database drivers from creating an empty file at a
// mistyped path.
func requireFile(p string) error {
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound("metadata file %q not found", p)
		}
		return err
	}
	return nil
}
