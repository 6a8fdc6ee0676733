package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sqlgen/internal/validate"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [sql]",
		Short: "Check that SQL text parses",
		Long: "Validates the SQL given as an argument, or read from stdin when stdin is not a\n" +
			"terminal. Exits 1 when the text is not valid.",
		Example: "  sqlgen validate \"INSERT INTO a.b.c (id) VALUES ('1');\"\n" +
			"  sqlgen validate < out.sql",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			res := validate.Check(sql)
			if a.json() {
				if err := PrintJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else if res.Valid {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid (%d statement(s))\n", res.Units)
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s\n", res.Message)
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}
}

func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return "", errors.New("no SQL given: pass it as an argument or pipe it on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
