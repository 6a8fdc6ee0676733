package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sqlgen/internal/service"
)

type tableSummary struct {
	TableName   string `json:"table_name"`
	CatalogName string `json:"catalog_name"`
	SchemaName  string `json:"schema_name"`
	Mandatory   int    `json:"mandatory"`
	Optional    int    `json:"optional"`
}

type listTablesResponse struct {
	Tables []tableSummary `json:"tables"`
}

// Health reports liveness and the number of loaded tables.
func (h *APIHandler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tables": h.generator.Catalog().Len(),
	})
}

// ListTables handles GET /v1/tables.
func (h *APIHandler) ListTables(w http.ResponseWriter, _ *http.Request) {
	layouts := h.generator.Layouts()
	resp := listTablesResponse{Tables: make([]tableSummary, 0, len(layouts))}
	for _, l := range layouts {
		resp.Tables = append(resp.Tables, summarize(l))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetTable handles GET /v1/tables/{table}.
func (h *APIHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	layout, err := h.generator.Layout(chi.URLParam(r, "table"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

func summarize(l service.Layout) tableSummary {
	return tableSummary{
		TableName:   l.Table.TableName,
		CatalogName: l.Table.CatalogName,
		SchemaName:  l.Table.SchemaName,
		Mandatory:   len(l.Mandatory),
		Optional:    len(l.Optional),
	}
}
