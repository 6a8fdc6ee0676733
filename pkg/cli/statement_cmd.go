package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// parseAssignments parses col=value pairs. The value may be empty or contain
// further '=' characters.
func parseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid assignment %q: expected column=value", p)
		}
		if _, dup := out[col]; dup {
			return nil, fmt.Errorf("column %q assigned more than once", col)
		}
		out[col] = val
	}
	return out, nil
}

func newInsertCmd(a *app) *cobra.Command {
	var (
		sets         []string
		catalog      string
		schema       string
		includeEmpty bool
		out          string
	)

	cmd := &cobra.Command{
		Use:   "insert <table>",
		Short: "Generate an INSERT statement",
		Long: "Generates an INSERT for <table> from --set column=value pairs. Mandatory columns\n" +
			"must have a non-blank value; the command exits 1 when any is missing or the\n" +
			"generated statement fails validation.",
		Example: "  sqlgen insert users --set id=1 --set name=bob\n" +
			"  sqlgen insert users --set id=1 --mode parameterized -o json",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			st, err := gen.Insert(cmd.Context(), service.InsertRequest{
				Table:        args[0],
				Catalog:      catalog,
				Schema:       schema,
				Mode:         a.mode,
				Values:       values,
				IncludeEmpty: includeEmpty,
			})
			if err != nil {
				return reportMissing(cmd, a, err)
			}
			return a.emitStatements(cmd, out, st)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Column value as column=value (repeatable)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Override the table's catalog")
	cmd.Flags().StringVar(&schema, "schema", "", "Override the table's schema")
	cmd.Flags().BoolVar(&includeEmpty, "include-empty", false, "Include optional columns with blank values")
	cmd.Flags().StringVar(&out, "out", "", "Also write the statement to this file")

	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		sets    []string
		where   string
		catalog string
		schema  string
		out     string
	)

	cmd := &cobra.Command{
		Use:     "update <table>",
		Short:   "Generate an UPDATE statement",
		Example: "  sqlgen update users --set name=alice --where id=1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := parseAssignments(sets)
			if err != nil {
				return err
			}
			whereCol, whereVal, ok := strings.Cut(where, "=")
			if !ok || strings.TrimSpace(whereCol) == "" {
				return fmt.Errorf("invalid --where %q: expected column=value", where)
			}
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			st, err := gen.Update(cmd.Context(), service.UpdateRequest{
				Table:   args[0],
				Catalog: catalog,
				Schema:  schema,
				Mode:    a.mode,
				Set:     set,
				Where:   domain.FieldAssignment{Column: strings.TrimSpace(whereCol), Value: whereVal},
			})
			if err != nil {
				return err
			}
			return a.emitStatements(cmd, out, st)
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "New column value as column=value (repeatable)")
	cmd.Flags().StringVar(&where, "where", "", "WHERE equality as column=value (required)")
	cmd.Flags().StringVar(&catalog, "catalog", "", "Override the table's catalog")
	cmd.Flags().StringVar(&schema, "schema", "", "Override the table's schema")
	cmd.Flags().StringVar(&out, "out", "", "Also write the statement to this file")
	_ = cmd.MarkFlagRequired("where")

	return cmd
}

// reportMissing prints the mandatory columns of a gate failure before
// returning err.
func reportMissing(cmd *cobra.Command, a *app, err error) error {
	var missing *domain.MandatoryFieldMissingError
	if !errors.As(err, &missing) {
		return err
	}
	if a.json() {
		_ = PrintJSON(cmd.OutOrStdout(), map[string]interface{}{
			"error":   err.Error(),
			"missing": missing.Columns,
		})
		return errInvalid
	}
	return err
}

// emitStatements prints statements, writes valid ones to out when set, and
// returns errInvalid when any statement failed validation.
func (a *app) emitStatements(cmd *cobra.Command, out string, stmts ...*domain.GeneratedStatement) error {
	w := cmd.OutOrStdout()
	invalid := false
	for _, st := range stmts {
		if !st.Valid {
			invalid = true
		}
	}

	if a.json() {
		var v interface{} = stmts
		if len(stmts) == 1 {
			v = stmts[0]
		}
		if err := PrintJSON(w, v); err != nil {
			return err
		}
	} else {
		for _, st := range stmts {
			printStatement(w, st)
		}
	}

	if out != "" {
		if err := writeStatements(out, stmts); err != nil {
			return err
		}
		a.logger.Info("statements written", "path", out, "count", len(stmts))
	}
	if invalid {
		return errInvalid
	}
	return nil
}

func printStatement(w io.Writer, st *domain.GeneratedStatement) {
	_, _ = fmt.Fprintln(w, st.SQL)
	if len(st.Args) > 0 {
		_, _ = fmt.Fprintf(w, "-- args: %s\n", strings.Join(quoteArgs(st.Args), ", "))
	}
	if st.Valid {
		_, _ = fmt.Fprintln(w, "-- valid")
		return
	}
	_, _ = fmt.Fprintf(w, "-- INVALID: %s\n", st.Diagnostic)
}

func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = fmt.Sprintf("%q", a)
	}
	return out
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// writeStatements writes one statement per line. Every line of an invalid
// statement is commented out.
func writeStatements(path string, stmts []*domain.GeneratedStatement) error {
	var b strings.Builder
	for _, st := range stmts {
		if st.Valid {
			b.WriteString(st.SQL)
			b.WriteString("\n")
			continue
		}
		for _, line := range strings.Split(lineBreaks.Replace(st.SQL), "\n") {
			b.WriteString("-- INVALID: ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil { //nolint:gosec // output file is user-chosen
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
