package ui

import (
	"strings"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"sqlgen/internal/service"
)

func appPage(title, active string, layouts []service.Layout, body ...Node) Node {
	nav := make([]Node, 0, len(layouts)+1)
	nav = append(nav, navLink("/", "Tables", active == ""))
	for _, l := range layouts {
		name := l.Table.TableName
		nav = append(nav, navLink("/ui/tables/"+name, name, name == active))
	}

	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title+" | sqlgen")),
			Link(Rel("icon"), Href("data:,")),
			StyleEl(Raw(stylesheet)),
		),
		Body(
			Main(Class("app-shell"),
				Aside(
					Class("app-sidebar"),
					Div(
						Strong(Text("sqlgen")),
						P(Class("muted"), Text("INSERT and UPDATE generator")),
					),
					Nav(Class("app-nav"), Group(nav)),
				),
				Section(
					Class("app-main"),
					H1(Text(title)),
					Group(body),
				),
			),
		),
	))
}

func navLink(href, label string, active bool) Node {
	className := "app-nav-link"
	if active {
		className += " active"
	}
	return A(Href(href), Class(className), Text(label))
}

func errorPage(title, message string) Node {
	return Doctype(HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			TitleEl(Text(title+" | sqlgen")),
			StyleEl(Raw(stylesheet)),
		),
		Body(
			Main(
				Class("app-main"),
				H1(Text(title)),
				P(Text(message)),
				P(A(Href("/"), Text("Back to tables"))),
			),
		),
	))
}

func cardClass(extra ...string) string {
	return strings.Join(append([]string{"card"}, extra...), " ")
}

func statusLabel(text, tone string) Node {
	className := "Label"
	if tone != "" {
		className += " Label--" + tone
	}
	return Span(Class(className), Text(text))
}

func optionSelected(value, label string, selected bool) Node {
	return Option(Value(value), If(selected, Selected()), Text(label))
}
