// Package web exposes the engine as a small JSON API over HTTP.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kihiko-jay/mini-rdbms/internal/domain/data"
	"github.com/kihiko-jay/mini-rdbms/internal/engine"
	"github.com/kihiko-jay/mini-rdbms/internal/sql"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Columns      []string   `json:"columns,omitempty"`
	Rows         []data.Row `json:"rows,omitempty"`
	RowsAffected int        `json:"rows_affected"`
	Message      string     `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the JSON API. Statement execution is serialized under
// a lock, matching the engine's single-caller requirement.
type Handler struct {
	eng *engine.Engine
	mux *http.ServeMux

	mu sync.Mutex
}

// NewHandler builds the API routes around eng.
func NewHandler(eng *engine.Engine) *Handler {
	h := &Handler{eng: eng, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /api/query", h.handleQuery)
	h.mux.HandleFunc("GET /api/tables", h.handleTables)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No query provided"})
		return
	}

	cmd, err := sql.Parse(req.Query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	h.mu.Lock()
	result, err := h.eng.Execute(r.Context(), cmd)
	h.mu.Unlock()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Columns:      result.Columns,
		Rows:         result.Rows,
		RowsAffected: result.RowsAffected,
		Message:      result.Message,
	})
}

func (h *Handler) handleTables(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	infos := h.eng.TableInfos()
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{"tables": infos})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response", "error", err)
	}
}
