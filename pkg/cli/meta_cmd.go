package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"sqlgen/internal/metadata"
)

func newMetaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Import, export and check table metadata",
	}

	cmd.AddCommand(newMetaImportCmd(a))
	cmd.AddCommand(newMetaExportCmd(a))
	cmd.AddCommand(newMetaTemplateCmd(a))
	cmd.AddCommand(newMetaLintCmd(a))

	return cmd
}

func newMetaImportCmd(a *app) *cobra.Command {
	var (
		dbPath  string
		catalog string
		schema  string
	)

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Copy metadata from a source into a SQLite store",
		Long: "Loads metadata from <source> (YAML, SQLite, DuckDB or object storage) and\n" +
			"replaces the contents of the SQLite store at --db.",
		Example: "  sqlgen meta import s3://bucket/metadata.yaml --db meta.sqlite\n" +
			"  sqlgen meta import warehouse.duckdb --schema main --db meta.sqlite",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := a.loader()
			loader.DuckDB = metadata.Filter{Catalog: catalog, Schema: schema}
			cat, err := loader.Open(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load metadata %s: %w", args[0], err)
			}
			if err := metadata.SaveSQLite(cmd.Context(), dbPath, cat); err != nil {
				return err
			}
			a.logger.Info("metadata imported", "source", args[0], "db", dbPath, "tables", cat.Len())

			if a.json() {
				return PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"status": "ok",
					"db":     dbPath,
					"tables": cat.Len(),
				})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d table(s) into %s\n", cat.Len(), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite store to write (required)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Only import this catalog (DuckDB sources)")
	cmd.Flags().StringVar(&schema, "schema", "", "Only import this schema (DuckDB sources)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func newMetaExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded metadata as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), out, cat)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}

func newMetaTemplateCmd(_ *app) *cobra.Command {
	var (
		catalog string
		schema  string
		out     string
	)

	cmd := &cobra.Command{
		Use:     "template <table>...",
		Short:   "Write a starter YAML metadata document",
		Example: "  sqlgen meta template users orders --catalog main --schema sales --out metadata.yaml",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := metadata.Template(catalog, schema, args...)
			if err != nil {
				return err
			}
			return writeCatalog(cmd.OutOrStdout(), out, cat)
		},
	}

	cmd.Flags().StringVar(&catalog, "catalog", "", "Catalog name (default my_catalog)")
	cmd.Flags().StringVar(&schema, "schema", "", "Schema name (default my_schema)")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")

	return cmd
}

func newMetaLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Report metadata that will produce rejected statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			issues := cat.Lint()
			if a.json() {
				if err := PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
					"issues": issues,
				}); err != nil {
					return err
				}
			} else if len(issues) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No issues found.")
			} else {
				rows := make([][]string, 0, len(issues))
				for _, is := range issues {
					rows = append(rows, []string{is.Table, is.Column, is.Message})
				}
				PrintTable(cmd.OutOrStdout(), []string{"table", "column", "issue"}, rows)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s): %w", len(issues), errLint)
			}
			return nil
		},
	}
}

// writeCatalog encodes cat to path, or to w when path is empty.
func writeCatalog(w io.Writer, path string, cat *metadata.Catalog) error {
	if path == "" {
		return metadata.Encode(w, cat)
	}
	f, err := os.Create(path) //nolint:gosec // output file is user-chosen
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := metadata.Encode(f, cat); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	_, _ = fmt.Fprintf(w, "Wrote %d table(s) to %s\n", cat.Len(), path)
	return nil
}
