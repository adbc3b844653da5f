// Package registry manages hosted-service state: projects, their uploaded
// manifests, and computed diff runs.
package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Service provides project and run management backed by Postgres.
type Service struct {
	db *sql.DB
}

// Project represents one tracked data pipeline project.
type Project struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// ManifestRow represents uploaded manifest metadata from the database.
// The manifest body itself lives in blob storage at StorageRef.
type ManifestRow struct {
	ID           string
	ProjectID    string
	SnapshotID   string
	Environment  *string
	NodeCount    int
	EdgeCount    int
	PackageCount int
	StorageRef   string
	CreatedAt    time.Time
}

// RunRow represents one computed diff run from the database.
type RunRow struct {
	ID                string
	ProjectID         string
	BaseManifestID    string
	CurrentManifestID string
	GraphID           string
	Grade             string
	DirectChanges     int
	ImpactedNodes     int
	Summary           json.RawMessage
	StorageRef        string
	CreatedAt         time.Time
}

// NewService creates a new registry Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// CreateProject creates a new project.
func (s *Service) CreateProject(ctx context.Context, name string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO projects (name)
		 VALUES ($1)
		 RETURNING id, name, created_at`,
		name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return p, nil
}

// GetProjectByName looks up a project by name.
func (s *Service) GetProjectByName(ctx context.Context, name string) (*Project, error) {
	p := &Project{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM projects WHERE name = $1`,
		name,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get project by name %s: %w", name, err)
	}
	return p, nil
}

// EnsureProject gets or creates a project by name.
func (s *Service) EnsureProject(ctx context.Context, name string) (*Project, error) {
	p, err := s.GetProjectByName(ctx, name)
	if err == nil {
		return p, nil
	}

	p, err = s.CreateProject(ctx, name)
	if err != nil {
		// Could be a race condition; try getting again
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return s.GetProjectByName(ctx, name)
		}
		return nil, fmt.Errorf("ensure project: %w", err)
	}
	return p, nil
}

// ListProjects returns all projects ordered by name.
func (s *Service) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM projects ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// InsertManifest records uploaded manifest metadata. Re-uploading the same
// snapshot for a project refreshes the storage ref instead of duplicating.
func (s *Service) InsertManifest(ctx context.Context, m *ManifestRow) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO manifests (project_id, snapshot_id, environment, node_count, edge_count, package_count, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (project_id, snapshot_id) DO UPDATE SET storage_ref = EXCLUDED.storage_ref
		 RETURNING id`,
		m.ProjectID, m.SnapshotID, m.Environment,
		m.NodeCount, m.EdgeCount, m.PackageCount, m.StorageRef,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert manifest row: %w", err)
	}
	return id, nil
}

// GetManifestByID returns manifest metadata by ID.
func (s *Service) GetManifestByID(ctx context.Context, manifestID string) (*ManifestRow, error) {
	m := &ManifestRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, snapshot_id, environment,
		        node_count, edge_count, package_count, storage_ref, created_at
		 FROM manifests WHERE id = $1`,
		manifestID,
	).Scan(
		&m.ID, &m.ProjectID, &m.SnapshotID, &m.Environment,
		&m.NodeCount, &m.EdgeCount, &m.PackageCount, &m.StorageRef, &m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get manifest %s: %w", manifestID, err)
	}
	return m, nil
}

// CreateRun records a computed diff run. The idempotency key is
// (project_id, base_manifest_id, current_manifest_id): recomputing the same
// pair updates the run in place and returns the same row.
func (s *Service) CreateRun(ctx context.Context, run *RunRow) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO runs (project_id, base_manifest_id, current_manifest_id, graph_id,
		                   grade, direct_changes, impacted_nodes, summary, storage_ref)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (project_id, base_manifest_id, current_manifest_id) DO UPDATE
		   SET graph_id = EXCLUDED.graph_id,
		       grade = EXCLUDED.grade,
		       direct_changes = EXCLUDED.direct_changes,
		       impacted_nodes = EXCLUDED.impacted_nodes,
		       summary = EXCLUDED.summary,
		       storage_ref = EXCLUDED.storage_ref,
		       updated_at = now()
		 RETURNING id`,
		run.ProjectID, run.BaseManifestID, run.CurrentManifestID, run.GraphID,
		run.Grade, run.DirectChanges, run.ImpactedNodes, run.Summary, run.StorageRef,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// ListRunsByProject returns all runs for a project, newest first.
func (s *Service) ListRunsByProject(ctx context.Context, projectID string) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, base_manifest_id, current_manifest_id, graph_id,
		        grade, direct_changes, impacted_nodes, summary, storage_ref, created_at
		 FROM runs WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRow
	for rows.Next() {
		var run RunRow
		if err := rows.Scan(
			&run.ID, &run.ProjectID, &run.BaseManifestID, &run.CurrentManifestID, &run.GraphID,
			&run.Grade, &run.DirectChanges, &run.ImpactedNodes, &run.Summary, &run.StorageRef, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRunByID returns a single run by ID.
func (s *Service) GetRunByID(ctx context.Context, runID string) (*RunRow, error) {
	run := &RunRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, base_manifest_id, current_manifest_id, graph_id,
		        grade, direct_changes, impacted_nodes, summary, storage_ref, created_at
		 FROM runs WHERE id = $1`,
		runID,
	).Scan(
		&run.ID, &run.ProjectID, &run.BaseManifestID, &run.CurrentManifestID, &run.GraphID,
		&run.Grade, &run.DirectChanges, &run.ImpactedNodes, &run.Summary, &run.StorageRef, &run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return run, nil
}

// GetRunByGraphID returns the run whose computed graph has the given ID.
func (s *Service) GetRunByGraphID(ctx context.Context, graphID string) (*RunRow, error) {
	run := &RunRow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, base_manifest_id, current_manifest_id, graph_id,
		        grade, direct_changes, impacted_nodes, summary, storage_ref, created_at
		 FROM runs WHERE graph_id = $1`,
		graphID,
	).Scan(
		&run.ID, &run.ProjectID, &run.BaseManifestID, &run.CurrentManifestID, &run.GraphID,
		&run.Grade, &run.DirectChanges, &run.ImpactedNodes, &run.Summary, &run.StorageRef, &run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get run for graph %s: %w", graphID, err)
	}
	return run, nil
}

// DeleteProject removes a project and all its manifests and runs.
func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", projectID, err)
	}
	return nil
}
