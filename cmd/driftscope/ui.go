package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driftscope/driftscope/pkg/config"
	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/review"
)

func newUICmd() *cobra.Command {
	var (
		projectPath string
		port        string
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start a local API server for the Driftscope web UI",
		Long: `Starts an HTTP server on localhost that serves cached lineage graphs.
Point the web UI at this server.

Usage:
  1. Start the API server:  driftscope ui --project-path /path/to/project
  2. In another terminal:   cd web && pnpm dev
  3. Open http://localhost:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(projectPath, port)
		},
	}

	cmd.Flags().StringVar(&projectPath, "project-path", "", "Path to project root (default: detect from cwd)")
	cmd.Flags().StringVar(&port, "port", "7700", "Port to serve on")

	return cmd
}

func runUI(projectPath, port string) error {
	root, err := resolveProject(projectPath)
	if err != nil {
		return err
	}

	srv := &localAPIServer{
		root:        root,
		projectName: filepath.Base(root),
		graphDir:    config.GraphDir(root),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/project", srv.handleProject)
	mux.HandleFunc("/api/graphs", srv.handleGraphList)
	mux.HandleFunc("/api/graphs/", srv.handleGraphRoutes)

	// CORS middleware for the web UI dev server
	handler := corsMiddleware(mux)

	fmt.Fprintf(os.Stderr, "Driftscope API server\n")
	fmt.Fprintf(os.Stderr, "  Project:    %s\n", root)
	fmt.Fprintf(os.Stderr, "  Graphs:     %s\n", srv.graphDir)
	fmt.Fprintf(os.Stderr, "  Listening:  http://localhost:%s\n", port)

	return http.ListenAndServe(":"+port, handler)
}

type localAPIServer struct {
	root        string
	projectName string
	graphDir    string
}

func (s *localAPIServer) handleProject(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"id":   "local",
		"name": s.projectName,
		"path": s.root,
	})
}

func (s *localAPIServer) handleGraphList(w http.ResponseWriter, r *http.Request) {
	entries, err := os.ReadDir(s.graphDir)
	if err != nil {
		writeJSON(w, []interface{}{})
		return
	}

	type graphInfo struct {
		ID              string             `json:"id"`
		BaseSnapshot    string             `json:"base_snapshot_id"`
		CurrentSnapshot string             `json:"current_snapshot_id"`
		Stats           lineage.GraphStats `json:"stats"`
	}

	var graphs []graphInfo
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		g, err := lineage.LoadGraph(filepath.Join(s.graphDir, e.Name()))
		if err != nil {
			continue
		}
		graphs = append(graphs, graphInfo{
			ID:              g.ID,
			BaseSnapshot:    g.BaseSnapshotID,
			CurrentSnapshot: g.CurrentSnapshotID,
			Stats:           g.Stats,
		})
	}

	if graphs == nil {
		writeJSON(w, []interface{}{})
		return
	}
	writeJSON(w, graphs)
}

func (s *localAPIServer) handleGraphRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/graphs/")
	parts := strings.Split(path, "/")

	if len(parts) == 0 || parts[0] == "" {
		s.handleGraphList(w, r)
		return
	}

	graphID := parts[0]

	// /api/graphs/{id}/highlight?node=...
	if len(parts) >= 2 && parts[1] == "highlight" {
		s.handleHighlight(w, r, graphID)
		return
	}

	// /api/graphs/{id}/columns?node=...
	if len(parts) >= 2 && parts[1] == "columns" {
		s.handleColumns(w, r, graphID)
		return
	}

	// /api/graphs/{id}/summary
	if len(parts) >= 2 && parts[1] == "summary" {
		s.handleSummary(w, r, graphID)
		return
	}

	// /api/graphs/{id} - return full graph
	s.handleGetGraph(w, r, graphID)
}

func (s *localAPIServer) handleGetGraph(w http.ResponseWriter, r *http.Request, id string) {
	g := s.findGraph(id)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, g)
}

func (s *localAPIServer) handleHighlight(w http.ResponseWriter, r *http.Request, graphID string) {
	g := s.findGraph(graphID)
	if g == nil {
		http.NotFound(w, r)
		return
	}

	node := r.URL.Query().Get("node")
	lineage.HighlightPath(g, node)

	writeJSON(w, map[string]interface{}{
		"focal":    node,
		"node_ids": g.HighlightedNodeIDs(),
		"graph":    g,
	})
}

func (s *localAPIServer) handleColumns(w http.ResponseWriter, r *http.Request, graphID string) {
	g := s.findGraph(graphID)
	if g == nil {
		http.NotFound(w, r)
		return
	}

	node := r.URL.Query().Get("node")
	if node == "" {
		http.Error(w, "node parameter required", http.StatusBadRequest)
		return
	}

	diff := g.NodeColumns(node)
	if diff == nil {
		// No schema info on one side or unknown node. The UI shows "no
		// schema information" for this, so an explicit null is the contract.
		writeJSON(w, nil)
		return
	}
	writeJSON(w, diff)
}

func (s *localAPIServer) handleSummary(w http.ResponseWriter, r *http.Request, graphID string) {
	g := s.findGraph(graphID)
	if g == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, review.Summarize(g))
}

// findGraph looks up a cached graph by ID or ID prefix.
func (s *localAPIServer) findGraph(id string) *lineage.Graph {
	path := filepath.Join(s.graphDir, id+".json")
	if g, err := lineage.LoadGraph(path); err == nil {
		return g
	}

	entries, err := os.ReadDir(s.graphDir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".json")
		if strings.HasPrefix(name, id) {
			if g, err := lineage.LoadGraph(filepath.Join(s.graphDir, e.Name())); err == nil {
				return g
			}
		}
	}

	return nil
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
