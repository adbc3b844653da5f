package api

import (
	"encoding/json"
	"net/http"

	"github.com/driftscope/driftscope/pkg/export"
)

// exportRequest is the JSON body for POST /api/v1/export.
type exportRequest struct {
	RunType     string          `json:"run_type"`
	Result      json.RawMessage `json:"result"`
	PrimaryKeys []string        `json:"primary_keys"`
	SideBySide  bool            `json:"side_by_side"`
}

// handleExport reshapes a run result into CSV and streams it back.
func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if req.RunType == "" || len(req.Result) == 0 {
		writeError(w, http.StatusBadRequest, "run_type and result are required")
		return
	}

	table := export.Extract(req.RunType, req.Result, export.Options{
		PrimaryKeys: req.PrimaryKeys,
		SideBySide:  req.SideBySide,
	})
	if table == nil {
		writeError(w, http.StatusUnprocessableEntity, "run result has no exportable table")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+req.RunType+`.csv"`)
	if err := export.WriteCSV(w, table); err != nil {
		// Headers are already sent; nothing useful left to do.
		return
	}
}
