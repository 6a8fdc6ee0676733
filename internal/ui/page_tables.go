package ui

import (
	"fmt"
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// formState is the submitted (or initial) content of a table form.
type formState struct {
	Catalog      string
	Schema       string
	Mode         domain.Mode
	Insert       map[string]string
	IncludeEmpty bool
	UpdateCols   map[string]bool
	Update       map[string]string
	WhereColumn  string
	WhereValue   string
}

// formResult is what the last submit produced.
type formResult struct {
	Action    string
	Statement *domain.GeneratedStatement
	Missing   []string
	Error     string
}

func homePage(layouts []service.Layout) Node {
	if len(layouts) == 0 {
		return appPage("Tables", "", layouts, Div(Class(cardClass()), P(Text("The loaded metadata declares no tables."))))
	}
	rows := make([]Node, 0, len(layouts))
	for _, l := range layouts {
		t := l.Table
		rows = append(rows, Tr(
			Td(A(Href("/ui/tables/"+t.TableName), Text(t.TableName))),
			Td(Text(t.CatalogName)),
			Td(Text(t.SchemaName)),
			Td(Text(fmt.Sprint(len(l.Mandatory)))),
			Td(Text(fmt.Sprint(len(l.Optional)))),
		))
	}
	return appPage("Tables", "", layouts,
		Div(Class(cardClass()),
			Table(
				THead(Tr(
					Th(Text("Table")), Th(Text("Catalog")), Th(Text("Schema")),
					Th(Text("Mandatory")), Th(Text("Optional")),
				)),
				TBody(Group(rows)),
			),
		),
	)
}

func tablePage(layouts []service.Layout, layout service.Layout, state formState, result *formResult, tokenInput Node) Node {
	name := layout.Table.TableName
	cols := layout.Columns()
	action := "/ui/tables/" + name

	return appPage(name, name, layouts,
		resultCard(result),
		Form(
			Method("post"),
			Action(action),
			tokenInput,
			Div(Class(cardClass()),
				H2(Text("Target")),
				field("catalog", "Catalog", Input(ID("catalog"), Name("catalog"), Value(state.Catalog))),
				field("schema", "Schema", Input(ID("schema"), Name("schema"), Value(state.Schema))),
				field("mode", "Mode", Select(ID("mode"), Name("mode"),
					optionSelected(domain.ModeLiteral.String(), "Literal values", state.Mode == domain.ModeLiteral),
					optionSelected(domain.ModeParameterized.String(), "Parameterized (?)", state.Mode == domain.ModeParameterized),
				)),
			),
			Div(Class(cardClass()),
				H2(Text("Insert")),
				P(Class("muted"), Text("Columns marked * are mandatory.")),
				Group(Map(cols, func(c domain.ColumnDescriptor) Node {
					key := insertFieldPrefix + c.ColumnName
					return field(key, columnLabel(c), Input(ID(key), Name(key), Value(state.Insert[c.ColumnName]), If(c.IsMandatory, Required())))
				})),
				Label(Input(Type("checkbox"), Name("include_empty"), Value("on"), If(state.IncludeEmpty, Checked())), Text(" Include blank optional columns")),
				Div(Button(Type("submit"), Name("action"), Value("insert"), Class("btn btn-primary"), Text("Generate INSERT"))),
			),
			Div(Class(cardClass()),
				H2(Text("Update")),
				Group(Map(cols, func(c domain.ColumnDescriptor) Node {
					key := updateFieldPrefix + c.ColumnName
					return Div(Class("field"),
						Label(Input(Type("checkbox"), Name("update_cols"), Value(c.ColumnName), If(state.UpdateCols[c.ColumnName], Checked())), Text(" "+c.ColumnName)),
						Input(Name(key), Value(state.Update[c.ColumnName]), Placeholder("new value")),
					)
				})),
				field("where_column", "WHERE column", Select(ID("where_column"), Name("where_column"),
					Group(Map(cols, func(c domain.ColumnDescriptor) Node {
						return optionSelected(c.ColumnName, c.ColumnName, c.ColumnName == state.WhereColumn)
					})),
				)),
				field("where_value", "WHERE value", Input(ID("where_value"), Name("where_value"), Value(state.WhereValue))),
				Div(Button(Type("submit"), Name("action"), Value("update"), Class("btn btn-primary"), Text("Generate UPDATE"))),
			),
		),
	)
}

func field(id, label string, input Node) Node {
	return Div(Class("field"), Label(For(id), Text(label)), input)
}

func columnLabel(c domain.ColumnDescriptor) string {
	label := c.ColumnName
	if c.DataType != "" {
		label += " (" + strings.ToUpper(c.DataType) + ")"
	}
	if c.IsMandatory {
		label += " *"
	}
	return label
}

func resultCard(result *formResult) Node {
	if result == nil {
		return nil
	}
	if len(result.Missing) > 0 {
		return Div(Class(cardClass()),
			statusLabel("Missing mandatory fields", "danger"),
			Ul(Group(Map(result.Missing, func(col string) Node { return Li(Text(col)) }))),
		)
	}
	if result.Error != "" {
		return Div(Class(cardClass()), statusLabel("Error", "danger"), P(Text(result.Error)))
	}
	st := result.Statement
	verdict := statusLabel("Valid", "success")
	if !st.Valid {
		verdict = statusLabel("Invalid", "danger")
	}
	return Div(Class(cardClass()),
		H2(Text(strings.ToUpper(result.Action))),
		verdict,
		Pre(Code(Text(st.SQL))),
		If(st.Diagnostic != "", P(Class("muted"), Text(st.Diagnostic))),
		If(len(st.Args) > 0, P(Class("muted"), Text("Arguments: "+strings.Join(quoteAll(st.Args), ", ")))),
	)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
