// Package api implements the hosted Driftscope REST API.
// It provides diff and read endpoints backed by Postgres and blob storage.
package api

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/driftscope/driftscope/internal/ingestion"
	"github.com/driftscope/driftscope/internal/registry"
)

// Handler is the top-level API handler for the hosted Driftscope service.
type Handler struct {
	db           *sql.DB
	registrySvc  *registry.Service
	ingestionSvc *ingestion.Service
	cache        *GraphCache
	uploadSecret []byte
}

// SetUploadSecret enables HMAC verification of write-endpoint bodies.
func (h *Handler) SetUploadSecret(secret []byte) {
	h.uploadSecret = secret
}

// NewHandler creates a new API handler.
func NewHandler(db *sql.DB, registrySvc *registry.Service, ingestionSvc *ingestion.Service, cache *GraphCache) *Handler {
	if cache == nil {
		cache = NewGraphCacheFromEnv()
	}
	return &Handler{
		db:           db,
		registrySvc:  registrySvc,
		ingestionSvc: ingestionSvc,
		cache:        cache,
	}
}

// RegisterRoutes registers all API routes on the given ServeMux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Write endpoints (auth-protected)
	mux.HandleFunc("POST /api/v1/diff", h.handleDiff)
	mux.HandleFunc("POST /api/v1/manifests", h.handleUploadManifest)
	mux.HandleFunc("POST /api/v1/export", h.handleExport)
	mux.HandleFunc("DELETE /api/projects/{projectID}", h.handleDeleteProject)

	// Read endpoints
	mux.HandleFunc("GET /api/projects", h.handleListProjects)
	mux.HandleFunc("GET /api/projects/{projectID}/runs", h.handleListRuns)
	mux.HandleFunc("GET /api/projects/{projectID}/runs/{runID}", h.handleGetRun)
	mux.HandleFunc("GET /api/graphs/{graphID}", h.handleGetGraph)
	mux.HandleFunc("GET /api/graphs/{graphID}/highlight", h.handleHighlight)
	mux.HandleFunc("GET /api/graphs/{graphID}/columns", h.handleColumns)
	mux.HandleFunc("GET /api/graphs/{graphID}/summary", h.handleSummary)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
