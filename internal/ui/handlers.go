package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
)

// Home lists the tables of the loaded metadata.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	renderHTML(w, http.StatusOK, homePage(h.Generator.Layouts()))
}

// TableForm renders an empty form for one table.
func (h *Handler) TableForm(w http.ResponseWriter, r *http.Request) {
	layout, err := h.Generator.Layout(chi.URLParam(r, "table"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	state := formState{
		Catalog: layout.Table.CatalogName,
		Schema:  layout.Table.SchemaName,
		Mode:    h.Mode,
	}
	token := h.formToken(w, r)
	renderHTML(w, http.StatusOK, tablePage(h.Generator.Layouts(), layout, state, nil, formTokenInput(token)))
}

// TableSubmit generates the INSERT or UPDATE named by the "action" field and
// re-renders the form with the result.
func (h *Handler) TableSubmit(w http.ResponseWriter, r *http.Request) {
	layout, err := h.Generator.Layout(chi.URLParam(r, "table"))
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	if !isFormPost(r) {
		renderHTML(w, http.StatusUnsupportedMediaType,
			errorPage("Unsupported Request", "Statements are generated from the HTML form only."))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderServiceError(w, r, domain.ErrValidation("invalid form: %v", err))
		return
	}

	state, err := readFormState(r.PostForm, layout)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	// A rejected token re-renders the form with the submitted values and a
	// fresh token; nothing is generated.
	if err := checkFormToken(r, formRaw(r.PostForm, formTokenField)); err != nil {
		h.Logger.WarnContext(r.Context(), "form token rejected", "table", layout.Table.TableName)
		token := h.issueFormToken(w)
		renderHTML(w, http.StatusForbidden,
			tablePage(h.Generator.Layouts(), layout, state, &formResult{Error: err.Error()}, formTokenInput(token)))
		return
	}

	result := &formResult{Action: formString(r.PostForm, "action")}
	var st *domain.GeneratedStatement
	switch result.Action {
	case "insert":
		st, err = h.Generator.Insert(r.Context(), service.InsertRequest{
			Table:        layout.Table.TableName,
			Catalog:      state.Catalog,
			Schema:       state.Schema,
			Mode:         state.Mode,
			Values:       state.Insert,
			IncludeEmpty: state.IncludeEmpty,
		})
	case "update":
		set := make(map[string]string, len(state.UpdateCols))
		for col := range state.UpdateCols {
			set[col] = state.Update[col]
		}
		st, err = h.Generator.Update(r.Context(), service.UpdateRequest{
			Table:   layout.Table.TableName,
			Catalog: state.Catalog,
			Schema:  state.Schema,
			Mode:    state.Mode,
			Set:     set,
			Where:   domain.FieldAssignment{Column: state.WhereColumn, Value: state.WhereValue},
		})
	default:
		h.renderServiceError(w, r, domain.ErrValidation("unknown action %q", result.Action))
		return
	}

	status := http.StatusOK
	var missing *domain.MandatoryFieldMissingError
	switch {
	case errors.As(err, &missing):
		status = http.StatusUnprocessableEntity
		result.Missing = missing.Columns
	case err != nil:
		status = domain.HTTPStatus(err)
		result.Error = err.Error()
	default:
		result.Statement = st
	}

	token := h.formToken(w, r)
	renderHTML(w, status, tablePage(h.Generator.Layouts(), layout, state, result, formTokenInput(token)))
}

// readFormState collects per-column inputs for the columns of layout only.
func readFormState(form map[string][]string, layout service.Layout) (formState, error) {
	mode, err := domain.ParseMode(formString(form, "mode"))
	if err != nil {
		return formState{}, domain.ErrValidation("%v", err)
	}
	state := formState{
		Catalog:      formString(form, "catalog"),
		Schema:       formString(form, "schema"),
		Mode:         mode,
		Insert:       map[string]string{},
		IncludeEmpty: formBool(form, "include_empty"),
		UpdateCols:   map[string]bool{},
		Update:       map[string]string{},
		WhereColumn:  formString(form, "where_column"),
		WhereValue:   formRaw(form, "where_value"),
	}
	selected := formSet(form, "update_cols")
	for _, c := range layout.Columns() {
		if v, ok := form[insertFieldPrefix+c.ColumnName]; ok {
			state.Insert[c.ColumnName] = first(v)
		}
		state.Update[c.ColumnName] = formRaw(form, updateFieldPrefix+c.ColumnName)
		if selected[c.ColumnName] {
			state.UpdateCols[c.ColumnName] = true
		}
	}
	return state, nil
}

func (h *Handler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := domain.HTTPStatus(err)
	title := "Unexpected Error"
	message := "An unexpected error occurred while loading this page."
	switch status {
	case http.StatusNotFound:
		title, message = "Not Found", err.Error()
	case http.StatusBadRequest:
		title, message = "Invalid Request", err.Error()
	default:
		h.Logger.ErrorContext(r.Context(), "ui request failed", "path", r.URL.Path, "error", err)
	}
	renderHTML(w, status, errorPage(title, message))
}
