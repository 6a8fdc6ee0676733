package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sqlgen/internal/domain"
)

func newTablesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the loaded metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			layouts := gen.Layouts()
			if a.json() {
				return PrintJSON(cmd.OutOrStdout(), layouts)
			}
			rows := make([][]string, 0, len(layouts))
			for _, l := range layouts {
				rows = append(rows, []string{
					l.Table.TableName,
					l.Table.CatalogName,
					l.Table.SchemaName,
					strconv.Itoa(len(l.Mandatory)),
					strconv.Itoa(len(l.Optional)),
				})
			}
			PrintTable(cmd.OutOrStdout(), []string{"table", "catalog", "schema", "mandatory", "optional"}, rows)
			return nil
		},
	}
}

func newColumnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of a table, mandatory first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := a.generator(cmd.Context())
			if err != nil {
				return err
			}
			layout, err := gen.Layout(args[0])
			if err != nil {
				return err
			}
			if a.json() {
				return PrintJSON(cmd.OutOrStdout(), layout)
			}
			rows := make([][]string, 0, len(layout.Mandatory)+len(layout.Optional))
			add := func(cols []domain.ColumnDescriptor) {
				for _, c := range cols {
					rows = append(rows, []string{c.ColumnName, c.DataType, fmt.Sprint(c.IsMandatory)})
				}
			}
			add(layout.Mandatory)
			add(layout.Optional)
			PrintTable(cmd.OutOrStdout(), []string{"column", "type", "mandatory"}, rows)
			return nil
		},
	}
}
