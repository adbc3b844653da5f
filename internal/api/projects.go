package api

import (
	"encoding/json"
	"net/http"

	"github.com/driftscope/driftscope/internal/registry"
)

type projectResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type runResponse struct {
	ID                string          `json:"id"`
	ProjectID         string          `json:"project_id"`
	BaseManifestID    string          `json:"base_manifest_id"`
	CurrentManifestID string          `json:"current_manifest_id"`
	GraphID           string          `json:"graph_id"`
	Grade             string          `json:"grade"`
	DirectChanges     int             `json:"direct_changes"`
	ImpactedNodes     int             `json:"impacted_nodes"`
	Summary           json.RawMessage `json:"summary"`
	CreatedAt         string          `json:"created_at"`
}

func runRowToResponse(run *registry.RunRow) runResponse {
	return runResponse{
		ID:                run.ID,
		ProjectID:         run.ProjectID,
		BaseManifestID:    run.BaseManifestID,
		CurrentManifestID: run.CurrentManifestID,
		GraphID:           run.GraphID,
		Grade:             run.Grade,
		DirectChanges:     run.DirectChanges,
		ImpactedNodes:     run.ImpactedNodes,
		Summary:           run.Summary,
		CreatedAt:         run.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.registrySvc.ListProjects(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, []projectResponse{})
		return
	}

	var result []projectResponse
	for _, p := range projects {
		result = append(result, projectResponse{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	if result == nil {
		result = []projectResponse{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListRuns(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	runs, err := h.registrySvc.ListRunsByProject(r.Context(), projectID)
	if err != nil {
		writeJSON(w, http.StatusOK, []runResponse{})
		return
	}

	var result []runResponse
	for i := range runs {
		result = append(result, runRowToResponse(&runs[i]))
	}

	if result == nil {
		result = []runResponse{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("runID")

	run, err := h.registrySvc.GetRunByID(r.Context(), runID)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, runRowToResponse(run))
}

func (h *Handler) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("projectID")

	if err := h.registrySvc.DeleteProject(r.Context(), projectID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete project: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
