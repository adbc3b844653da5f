package ingestion

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/driftscope/driftscope/internal/registry"
	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/manifest"
	"github.com/driftscope/driftscope/pkg/review"
)

// DiffRequest describes one diff computation: a project plus its base and
// current manifests.
type DiffRequest struct {
	ProjectName     string
	BaseManifest    *manifest.Snapshot
	CurrentManifest *manifest.Snapshot
}

// DiffResult identifies the stored artifacts of a completed diff.
type DiffResult struct {
	RunID             string          `json:"run_id"`
	ProjectID         string          `json:"project_id"`
	GraphID           string          `json:"graph_id"`
	BaseManifestID    string          `json:"base_manifest_id"`
	CurrentManifestID string          `json:"current_manifest_id"`
	Summary           *review.Summary `json:"summary"`
}

// Service orchestrates the hosted diff pipeline.
type Service struct {
	db       *sql.DB
	projects *registry.Service
	storage  StorageClient
}

// NewService creates a new ingestion Service.
func NewService(db *sql.DB, projects *registry.Service, storage StorageClient) *Service {
	return &Service{
		db:       db,
		projects: projects,
		storage:  storage,
	}
}

// Storage exposes the blob storage client for handlers that serve raw blobs.
func (s *Service) Storage() StorageClient {
	return s.storage
}

// ProcessDiff runs the full pipeline: store both manifests, build the lineage
// graph, summarize it, and persist the graph blob plus a run row. Repeating
// the same (project, base, current) triple updates the existing run.
func (s *Service) ProcessDiff(ctx context.Context, req DiffRequest) (*DiffResult, error) {
	if req.BaseManifest == nil || req.CurrentManifest == nil {
		return nil, fmt.Errorf("both base and current manifests are required")
	}

	project, err := s.projects.EnsureProject(ctx, req.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("ensure project: %w", err)
	}

	baseID, err := s.storeManifest(ctx, project.ID, req.BaseManifest)
	if err != nil {
		return nil, fmt.Errorf("store base manifest: %w", err)
	}
	currentID, err := s.storeManifest(ctx, project.ID, req.CurrentManifest)
	if err != nil {
		return nil, fmt.Errorf("store current manifest: %w", err)
	}

	g := lineage.Build(req.BaseManifest, req.CurrentManifest)
	summary := review.Summarize(g)

	graphData, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	if err := s.storage.PutGraph(ctx, project.ID, g.ID, graphData); err != nil {
		return nil, fmt.Errorf("put graph blob: %w", err)
	}

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	runID, err := s.projects.CreateRun(ctx, &registry.RunRow{
		ProjectID:         project.ID,
		BaseManifestID:    baseID,
		CurrentManifestID: currentID,
		GraphID:           g.ID,
		Grade:             summary.Grade,
		DirectChanges:     summary.DirectChanges,
		ImpactedNodes:     summary.ImpactedNodes,
		Summary:           summaryJSON,
		StorageRef:        fmt.Sprintf("%s/graphs/%s.json", project.ID, g.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("create run row: %w", err)
	}

	log.Printf("diff run %s completed: project=%s graph=%s grade=%s",
		runID, req.ProjectName, g.ID, summary.Grade)

	return &DiffResult{
		RunID:             runID,
		ProjectID:         project.ID,
		GraphID:           g.ID,
		BaseManifestID:    baseID,
		CurrentManifestID: currentID,
		Summary:           summary,
	}, nil
}

// LoadGraph retrieves a computed graph blob by looking up its run row first.
func (s *Service) LoadGraph(ctx context.Context, graphID string) (*lineage.Graph, error) {
	run, err := s.projects.GetRunByGraphID(ctx, graphID)
	if err != nil {
		return nil, fmt.Errorf("graph metadata: %w", err)
	}

	data, err := s.storage.GetGraph(ctx, run.ProjectID, graphID)
	if err != nil {
		return nil, fmt.Errorf("load graph blob: %w", err)
	}

	var g lineage.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal graph: %w", err)
	}
	return &g, nil
}

func (s *Service) storeManifest(ctx context.Context, projectID string, snap *manifest.Snapshot) (string, error) {
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	snap.ComputeStats()

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	if err := s.storage.PutManifest(ctx, projectID, snap.ID, data); err != nil {
		return "", fmt.Errorf("put manifest blob: %w", err)
	}

	id, err := s.projects.InsertManifest(ctx, &registry.ManifestRow{
		ProjectID:    projectID,
		SnapshotID:   snap.ID,
		Environment:  nilIfEmpty(snap.Environment),
		NodeCount:    snap.Stats.NodeCount,
		EdgeCount:    snap.Stats.EdgeCount,
		PackageCount: snap.Stats.PackageCount,
		StorageRef:   fmt.Sprintf("%s/manifests/%s.json", projectID, snap.ID),
	})
	if err != nil {
		return "", fmt.Errorf("insert manifest row: %w", err)
	}
	return id, nil
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
