package api

import (
	"net/http"

	"sqlgen/internal/domain"
	"sqlgen/internal/service"
	"sqlgen/internal/validate"
)

type insertBody struct {
	Table        string            `json:"table"`
	Catalog      string            `json:"catalog"`
	Schema       string            `json:"schema"`
	Mode         string            `json:"mode"`
	Values       map[string]string `json:"values"`
	IncludeEmpty bool              `json:"include_empty"`
}

type updateBody struct {
	Table   string                 `json:"table"`
	Catalog string                 `json:"catalog"`
	Schema  string                 `json:"schema"`
	Mode    string                 `json:"mode"`
	Set     map[string]string      `json:"set"`
	Where   domain.FieldAssignment `json:"where"`
}

type validateBody struct {
	SQL string `json:"sql"`
}

// CreateInsert handles POST /v1/statements/insert.
func (h *APIHandler) CreateInsert(w http.ResponseWriter, r *http.Request) {
	var body insertBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := requireField("table", body.Table); err != nil {
		h.writeError(w, r, err)
		return
	}
	mode, err := h.modeOrDefault(body.Mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	st, err := h.generator.Insert(r.Context(), service.InsertRequest{
		Table:        body.Table,
		Catalog:      body.Catalog,
		Schema:       body.Schema,
		Mode:         mode,
		Values:       body.Values,
		IncludeEmpty: body.IncludeEmpty,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// CreateUpdate handles POST /v1/statements/update.
func (h *APIHandler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	var body updateBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := requireField("table", body.Table); err != nil {
		h.writeError(w, r, err)
		return
	}
	mode, err := h.modeOrDefault(body.Mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	st, err := h.generator.Update(r.Context(), service.UpdateRequest{
		Table:   body.Table,
		Catalog: body.Catalog,
		Schema:  body.Schema,
		Mode:    mode,
		Set:     body.Set,
		Where:   body.Where,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Validate handles POST /v1/validate. An invalid statement is a 200 with
// valid=false.
func (h *APIHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var body validateBody
	if err := decodeJSON(w, r, &body); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validate.Check(body.SQL))
}
