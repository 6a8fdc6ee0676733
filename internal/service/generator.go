// Package service turns caller requests into validated INSERT and UPDATE
// statements using the loaded metadata.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"sqlgen/internal/dml"
	"sqlgen/internal/domain"
	"sqlgen/internal/metadata"
	"sqlgen/internal/validate"
)

// InsertRequest describes one INSERT. Catalog and Schema override the
// table's metadata when non-empty. Optional columns with blank values are
// left out unless IncludeEmpty is set.
type InsertRequest struct {
	Table        string            `json:"table" yaml:"table"`
	Catalog      string            `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema       string            `json:"schema,omitempty" yaml:"schema,omitempty"`
	Mode         domain.Mode       `json:"mode" yaml:"mode"`
	Values       map[string]string `json:"values" yaml:"values"`
	IncludeEmpty bool              `json:"include_empty,omitempty" yaml:"include_empty,omitempty"`
}

// UpdateRequest describes one UPDATE. Set columns are emitted in metadata
// column order.
type UpdateRequest struct {
	Table   string                 `json:"table" yaml:"table"`
	Catalog string                 `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Schema  string                 `json:"schema,omitempty" yaml:"schema,omitempty"`
	Mode    domain.Mode            `json:"mode" yaml:"mode"`
	Set     map[string]string      `json:"set" yaml:"set"`
	Where   domain.FieldAssignment `json:"where" yaml:"where"`
}

// Layout is a table with its columns split into mandatory and optional,
// each in metadata order.
type Layout struct {
	Table     domain.TableDescriptor    `json:"table"`
	Mandatory []domain.ColumnDescriptor `json:"mandatory"`
	Optional  []domain.ColumnDescriptor `json:"optional"`
}

// Columns returns every column of the layout in metadata order.
func (l Layout) Columns() []domain.ColumnDescriptor {
	cols := make([]domain.ColumnDescriptor, 0, len(l.Mandatory)+len(l.Optional))
	cols = append(cols, l.Mandatory...)
	cols = append(cols, l.Optional...)
	return cols
}

// Generator builds and validates statements against an immutable catalog.
// It is safe for concurrent use.
type Generator struct {
	catalog *metadata.Catalog
	layouts map[string]Layout
	logger  *slog.Logger
}

// NewGenerator creates a Generator. The mandatory/optional split is computed
// once here.
func NewGenerator(cat *metadata.Catalog, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Generator{
		catalog: cat,
		layouts: make(map[string]Layout, cat.Len()),
		logger:  logger,
	}
	for _, t := range cat.Tables() {
		cols, _ := cat.Columns(t.TableName)
		mandatory, optional := metadata.Partition(cols)
		g.layouts[t.TableName] = Layout{Table: t, Mandatory: mandatory, Optional: optional}
	}
	return g
}

// Catalog returns the metadata the generator was built from.
func (g *Generator) Catalog() *metadata.Catalog {
	return g.catalog
}

// Layouts returns the layout of every table in metadata order.
func (g *Generator) Layouts() []Layout {
	tables := g.catalog.Tables()
	out := make([]Layout, 0, len(tables))
	for _, t := range tables {
		out = append(out, g.layouts[t.TableName])
	}
	return out
}

// Layout returns the layout of one table.
func (g *Generator) Layout(table string) (Layout, error) {
	l, ok := g.layouts[table]
	if !ok {
		return Layout{}, domain.ErrNotFound("table %q not found", table)
	}
	return l, nil
}

// Insert gates mandatory fields, builds the INSERT and validates it.
// A MandatoryFieldMissingError is returned before any text is built.
func (g *Generator) Insert(ctx context.Context, req InsertRequest) (*domain.GeneratedStatement, error) {
	layout, err := g.Layout(req.Table)
	if err != nil {
		return nil, err
	}
	cols := layout.Columns()
	if err := checkKnown(req.Table, cols, req.Values); err != nil {
		return nil, err
	}

	mandatory := make([]string, len(layout.Mandatory))
	mandatoryValues := make([]string, len(layout.Mandatory))
	for i, col := range layout.Mandatory {
		mandatory[i] = col.ColumnName
		mandatoryValues[i] = req.Values[col.ColumnName]
	}
	if err := CheckMandatory(req.Table, mandatory, mandatoryValues); err != nil {
		g.logger.WarnContext(ctx, "mandatory fields missing",
			"table", req.Table, "kind", domain.KindInsert, "mode", req.Mode, "error", err)
		return nil, err
	}

	// Metadata order, so mandatory and optional columns interleave as declared.
	var columns, values []string
	for _, col := range g.mustColumns(req.Table) {
		v := req.Values[col.ColumnName]
		if col.IsMandatory || req.IncludeEmpty || strings.TrimSpace(v) != "" {
			columns = append(columns, col.ColumnName)
			values = append(values, v)
		}
	}

	catalog, schema := target(layout.Table, req.Catalog, req.Schema)
	sql, err := dml.BuildInsert(catalog, schema, layout.Table.TableName, columns, values, req.Mode)
	if err != nil {
		return nil, err
	}
	return g.finish(ctx, domain.KindInsert, req.Table, sql, req.Mode, columns, values, values), nil
}

// Update builds the UPDATE and validates it. An empty Set map still builds;
// the validator reports the empty SET clause.
func (g *Generator) Update(ctx context.Context, req UpdateRequest) (*domain.GeneratedStatement, error) {
	layout, err := g.Layout(req.Table)
	if err != nil {
		return nil, err
	}
	cols := g.mustColumns(req.Table)
	if err := checkKnown(req.Table, cols, req.Set); err != nil {
		return nil, err
	}
	if req.Where.Column != "" {
		if _, err := g.catalog.Column(req.Table, req.Where.Column); err != nil {
			return nil, domain.ErrValidation("unknown where column %q for table %q", req.Where.Column, req.Table)
		}
	}

	var setColumns, setValues []string
	for _, col := range cols {
		if v, ok := req.Set[col.ColumnName]; ok {
			setColumns = append(setColumns, col.ColumnName)
			setValues = append(setValues, v)
		}
	}

	catalog, schema := target(layout.Table, req.Catalog, req.Schema)
	sql, err := dml.BuildUpdate(catalog, schema, layout.Table.TableName, setColumns, setValues,
		req.Where.Column, req.Where.Value, req.Mode)
	if err != nil {
		return nil, err
	}

	args := append(append([]string(nil), setValues...), req.Where.Value)
	checkCols := append(append([]string(nil), setColumns...), req.Where.Column)
	return g.finish(ctx, domain.KindUpdate, req.Table, sql, req.Mode, checkCols, args, args), nil
}

// finish validates sql and assembles the result.
func (g *Generator) finish(ctx context.Context, kind domain.StatementKind, table, sql string, mode domain.Mode, columns, values, args []string) *domain.GeneratedStatement {
	res := validate.Check(sql)
	st := &domain.GeneratedStatement{
		Kind:       kind,
		SQL:        sql,
		Mode:       mode,
		Valid:      res.Valid,
		Diagnostic: res.Message,
	}
	if mode == domain.ModeParameterized {
		st.Args = args
	}

	// Literal values must stay inside their quotes and the text must hold
	// exactly one statement.
	quoted := ""
	if mode == domain.ModeLiteral {
		quoted = quotedColumn(columns, values)
	}
	if st.Valid && res.Units != 1 {
		st.Valid = false
		st.Diagnostic = fmt.Sprintf("expected a single %s statement, parsed %d", kind, res.Units)
	}
	if quoted != "" {
		if st.Valid {
			st.Valid = false
			st.Diagnostic = "literal value is not confined to its quotes"
		}
		st.Diagnostic = fmt.Sprintf("%s (value for column %q contains an unescaped single quote)", st.Diagnostic, quoted)
	}
	if !st.Valid {
		g.logger.WarnContext(ctx, "generated statement is invalid",
			"table", table, "kind", kind, "mode", mode, "diagnostic", st.Diagnostic)
		return st
	}

	g.logger.DebugContext(ctx, "statement generated", "table", table, "kind", kind, "mode", mode)
	return st
}

func (g *Generator) mustColumns(table string) []domain.ColumnDescriptor {
	cols, _ := g.catalog.Columns(table)
	return cols
}

// target applies non-empty overrides to the table's catalog and schema.
func target(t domain.TableDescriptor, catalog, schema string) (string, string) {
	if catalog == "" {
		catalog = t.CatalogName
	}
	if schema == "" {
		schema = t.SchemaName
	}
	return catalog, schema
}

// checkKnown rejects values for columns the table does not declare.
func checkKnown(table string, cols []domain.ColumnDescriptor, values map[string]string) error {
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.ColumnName] = true
	}
	var unknown []string
	for name := range values {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return domain.ErrValidation("unknown columns for table %q: %s", table, strings.Join(unknown, ", "))
}

// quotedColumn returns the first column whose value contains a single quote.
func quotedColumn(columns, values []string) string {
	for i, v := range values {
		if i < len(columns) && dml.BreaksLiteral(v) {
			return columns[i]
		}
	}
	return ""
}
