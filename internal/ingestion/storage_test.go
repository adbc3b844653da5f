package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStoragePutGetManifest(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"nodes":{},"parent_map":{}}`)
	if err := s.PutManifest(ctx, "project1", "man1", data); err != nil {
		t.Fatalf("PutManifest: %v", err)
	}

	got, err := s.GetManifest(ctx, "project1", "man1")
	if err != nil {
		t.Fatalf("GetManifest: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetManifest = %q, want %q", got, data)
	}

	// Verify file path layout
	expectedPath := filepath.Join(dir, "project1", "manifests", "man1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStoragePutGetGraph(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	data := []byte(`{"nodes":{},"edges":{}}`)
	if err := s.PutGraph(ctx, "project1", "graph1", data); err != nil {
		t.Fatalf("PutGraph: %v", err)
	}

	got, err := s.GetGraph(ctx, "project1", "graph1")
	if err != nil {
		t.Fatalf("GetGraph: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("GetGraph = %q, want %q", got, data)
	}

	expectedPath := filepath.Join(dir, "project1", "graphs", "graph1.json")
	if _, err := os.Stat(expectedPath); err != nil {
		t.Errorf("expected file at %s: %v", expectedPath, err)
	}
}

func TestLocalStorageGetNotFound(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	_, err := s.GetManifest(ctx, "project1", "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent manifest")
	}
}
