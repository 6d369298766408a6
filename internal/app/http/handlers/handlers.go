package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"cotizador/go_backend/internal/domain/catalog"
	"cotizador/go_backend/internal/domain/quote/pdf"
	"cotizador/go_backend/internal/platform/logger"
)

type Handlers struct {
	Catalog     *catalog.Store
	PDF         pdf.Generator
	RowsPerPage int
	Log         *logger.Logger
	Now         func() time.Time
}

func New(store *catalog.Store, gen pdf.Generator, rowsPerPage int, log *logger.Logger) *Handlers {
	return &Handlers{
		Catalog:     store,
		PDF:         gen,
		RowsPerPage: rowsPerPage,
		Log:         log,
		Now:         time.Now,
	}
}

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
