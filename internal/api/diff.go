package api

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/driftscope/driftscope/internal/ingestion"
	"github.com/driftscope/driftscope/pkg/manifest"
)

// diffRequest is the JSON body for POST /api/v1/diff.
type diffRequest struct {
	ProjectName string `json:"project_name"`

	// Inline manifests, or references to previously uploaded ones.
	BaseManifest      *manifest.Snapshot `json:"base_manifest"`
	CurrentManifest   *manifest.Snapshot `json:"current_manifest"`
	BaseManifestID    string             `json:"base_manifest_id"`
	CurrentManifestID string             `json:"current_manifest_id"`
}

// handleUploadManifest handles POST /api/v1/manifests: uploads a single
// manifest and returns its storage ID. Used for the two-step flow where large
// manifests are uploaded separately from the diff request.
func (h *Handler) handleUploadManifest(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		return
	}

	// Validate that the body is a parseable manifest
	var snap manifest.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid manifest JSON: "+err.Error())
		return
	}

	// Generate a storage ID and store the blob. The project association
	// happens when a diff request references this manifest.
	manifestID := uuid.New().String()
	if err := h.ingestionSvc.Storage().PutManifest(r.Context(), "_uploads", manifestID, data); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store manifest: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"manifest_id": manifestID})
}

func (h *Handler) handleDiff(w http.ResponseWriter, r *http.Request) {
	data, err := h.readBody(w, r)
	if err != nil {
		return
	}

	var req diffRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx := r.Context()

	// Reference mode: load manifests from storage when ids are provided
	if req.BaseManifestID != "" && req.BaseManifest == nil {
		snap, err := h.loadUploadedManifest(r, req.BaseManifestID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to load referenced base manifest: "+err.Error())
			return
		}
		req.BaseManifest = snap
	}
	if req.CurrentManifestID != "" && req.CurrentManifest == nil {
		snap, err := h.loadUploadedManifest(r, req.CurrentManifestID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to load referenced current manifest: "+err.Error())
			return
		}
		req.CurrentManifest = snap
	}

	if req.ProjectName == "" || req.BaseManifest == nil || req.CurrentManifest == nil {
		writeError(w, http.StatusBadRequest, "project_name, base_manifest, and current_manifest are required")
		return
	}

	result, err := h.ingestionSvc.ProcessDiff(ctx, ingestion.DiffRequest{
		ProjectName:     req.ProjectName,
		BaseManifest:    req.BaseManifest,
		CurrentManifest: req.CurrentManifest,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "diff failed: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) loadUploadedManifest(r *http.Request, manifestID string) (*manifest.Snapshot, error) {
	data, err := h.ingestionSvc.Storage().GetManifest(r.Context(), "_uploads", manifestID)
	if err != nil {
		return nil, err
	}
	var snap manifest.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// readBody reads a possibly gzip-compressed request body and, when an upload
// secret is configured, verifies the body signature. Writes the error
// response itself; callers just bail on non-nil error.
func (h *Handler) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	var body io.Reader = r.Body
	if r.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid gzip body: "+err.Error())
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return nil, err
	}

	if len(h.uploadSecret) > 0 {
		sig := r.Header.Get("X-Driftscope-Signature")
		if err := VerifySignature(data, sig, h.uploadSecret); err != nil {
			writeError(w, http.StatusUnauthorized, "signature verification failed")
			return nil, err
		}
	}

	return data, nil
}
