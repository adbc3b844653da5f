// Package ingestion orchestrates the hosted Driftscope pipeline: manifest
// intake, lineage diff computation, and result storage.
package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// StorageClient abstracts blob storage for manifests and computed graphs.
type StorageClient interface {
	PutManifest(ctx context.Context, projectID, manifestID string, data []byte) error
	GetManifest(ctx context.Context, projectID, manifestID string) ([]byte, error)
	PutGraph(ctx context.Context, projectID, graphID string, data []byte) error
	GetGraph(ctx context.Context, projectID, graphID string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(projectID, kind, id string) string {
	return filepath.Join(s.BaseDir, projectID, kind, id+".json")
}

func (s *LocalStorage) put(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// PutManifest stores a manifest blob.
func (s *LocalStorage) PutManifest(ctx context.Context, projectID, manifestID string, data []byte) error {
	return s.put(s.path(projectID, "manifests", manifestID), data)
}

// GetManifest retrieves a manifest blob.
func (s *LocalStorage) GetManifest(ctx context.Context, projectID, manifestID string) ([]byte, error) {
	return os.ReadFile(s.path(projectID, "manifests", manifestID))
}

// PutGraph stores a computed graph blob.
func (s *LocalStorage) PutGraph(ctx context.Context, projectID, graphID string, data []byte) error {
	return s.put(s.path(projectID, "graphs", graphID), data)
}

// GetGraph retrieves a computed graph blob.
func (s *LocalStorage) GetGraph(ctx context.Context, projectID, graphID string) ([]byte, error) {
	return os.ReadFile(s.path(projectID, "graphs", graphID))
}
