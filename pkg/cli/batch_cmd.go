package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// loadRows reads a YAML sequence of column→value mappings. Scalars of any
// YAML type are kept as their source text.
func loadRows(path string) ([]map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // rows file is user-chosen
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	var rows []map[string]string
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse rows %s: %w", path, err)
	}
	return rows, nil
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		rowsPath     string
		concurrency  int
		catalog      string
		schema       string
		includeEmpty bool
		out          string
	)

	cmd := &cobra.Command{
		Use:   "batch <table>",
		Short: "Generate one INSERT per row of a YAML file",
		Long: "Reads a YAML list of column: value mappings and generates an INSERT for each\n" +
			"row. Rows are reported in file order; the command exits 1 when any row is\n" +
			"rejected or invalid.",
		Example: "  sqlgen batch users --rows rows.yaml --concurrency 8 --out users.sql",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadRows(rowsPath)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = a.cfg.BatchConcurrency
			}

			reqs := make([]service.InsertRequest, len(rows))
			for i, values := range rows {
				reqs[i] = service.InsertRequest{
					Table:        args[0],
					Catalog:      catalog,
					Schema:       schema,
					Mode:         a.mode,
					Values:       values,
					IncludeEmpty: includeEmpty,
				}
			}
			results, err := gen.Batch(cmd.Context(), reqs, concurrency)
			if err != nil {
				return err
			}
			return a.emitBatch(cmd, out, results)
		},
	}

	cmd.Flags().StringVar(&rowsPath, "rows", "", "YAML file with a list of rows (required)")
	cmd.Flags().IntVar(&concurrency, "concurrency", service.DefaultBatchConcurrency, "Rows generated in parallel")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Override the table's catalog")
	cmd.Flags().StringVar(&schema, "schema", "", "Override the table's schema")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "Include optional columns with blank values")
	cmd.Flags().StringVar(&out, "out", "", "Write the generated statements to this file")
	_ = cmd.MarkFlagRequired("rows")

	return cmd
}

func (a *app) emitBatch(cmd *cobra.Command, out string, results []service.BatchResult) error {
	failed := 0
	var stmts []*domain.GeneratedStatement
	for _, r := range results {
		if !r.OK() {
			failed++
		}
		if r.Statement != nil {
			stmts = append(stmts, r.Statement)
		}
	}

	w := cmd.OutOrStdout()
	if a.json() {
		if err := PrintJSON(w, results); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			status, detail := "ok", ""
			switch {
			case r.Error != "":
				status, detail = "error", r.Error
			case !r.Statement.Valid:
				status, detail = "invalid", r.Statement.Diagnostic
			}
			sql := ""
			if r.Statement != nil {
				sql = r.Statement.SQL
			}
			rows = append(rows, []string{strconv.Itoa(r.Index + 1), status, sql, detail})
		}
		PrintTable(w, []string{"row", "status", "sql", "detail"}, rows)
	}

	if out != "" {
		if err := writeStatements(out, stmts); err != nil {
			return err
		}
		a.logger.Info("statements written", "path", out, "count", len(stmts))
	}
	if failed > 0 {
		if !a.json() {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d row(s) failed\n", failed, len(results))
		}
		return errInvalid
	}
	return nil
}
