package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

// loadGraph loads a computed graph by ID, checking the cache first, then
// falling back to DB metadata lookup + storage client.
func (h *Handler) loadGraph(ctx context.Context, graphID string) (*lineage.Graph, error) {
	if g := h.cache.Get(graphID); g != nil {
		return g, nil
	}

	g, err := h.ingestionSvc.LoadGraph(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	h.cache.Put(graphID, g)
	return g, nil
}

func (h *Handler) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, err := h.loadGraph(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, g)
}

func (h *Handler) handleHighlight(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, err := h.loadGraph(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	node := r.URL.Query().Get("node")
	lineage.HighlightPath(g, node)

	writeJSON(w, http.StatusOK, map[string]any{
		"focal":    node,
		"node_ids": g.HighlightedNodeIDs(),
		"graph":    g,
	})
}

func (h *Handler) handleColumns(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, err := h.loadGraph(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	node := r.URL.Query().Get("node")
	if node == "" {
		writeError(w, http.StatusBadRequest, "node parameter required")
		return
	}

	diff := g.NodeColumns(node)
	if diff == nil {
		// No schema info on one side or unknown node; explicit null is the
		// contract with the UI.
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	graphID := r.PathValue("graphID")

	g, err := h.loadGraph(r.Context(), graphID)
	if err != nil {
		writeError(w, http.StatusNotFound, "graph not found")
		return
	}

	writeJSON(w, http.StatusOK, review.Summarize(g))
}
