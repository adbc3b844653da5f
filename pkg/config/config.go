// Package config handles loading and managing Driftscope configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for Driftscope.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Export  ExportConfig  `yaml:"export"`
}

// ProjectConfig locates the dbt-style project's artifacts.
type ProjectConfig struct {
	Name            string `yaml:"name"`
	TargetDir       string `yaml:"target_dir"`       // where the current manifest lands, default "target"
	BaseTargetDir   string `yaml:"base_target_dir"`  // where the base manifest lands, default "target-base"
	ManifestName    string `yaml:"manifest_name"`    // default "manifest.json"
	DefaultBaseEnv  string `yaml:"default_base_env"` // label recorded on base snapshots
}

// ExportConfig controls CSV export behavior.
type ExportConfig struct {
	// PrimaryKeys maps run types to the join-key columns used when merging
	// base and current rows.
	PrimaryKeys map[string][]string `yaml:"primary_keys"`
	SideBySide  bool                `yaml:"side_by_side"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			TargetDir:      "target",
			BaseTargetDir:  "target-base",
			ManifestName:   "manifest.json",
			DefaultBaseEnv: "base",
		},
		Export: ExportConfig{
			PrimaryKeys: map[string][]string{},
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .driftscope/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".driftscope", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// CacheDir returns the cache directory for a given project path.
// Uses ~/.cache/driftscope/<project-slug>/ to avoid polluting the project.
func CacheDir(projectPath string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp dir if HOME isn't available
		home = os.TempDir()
	}
	slug := projectSlug(projectPath)
	return filepath.Join(home, ".cache", "driftscope", slug)
}

// ManifestDir returns the snapshot storage directory for a project.
func ManifestDir(projectPath string) string {
	return filepath.Join(CacheDir(projectPath), "manifests")
}

// GraphDir returns the computed graph storage directory for a project.
func GraphDir(projectPath string) string {
	return filepath.Join(CacheDir(projectPath), "graphs")
}

// projectSlug creates a filesystem-safe identifier from a project path.
// Uses the last two path components (e.g., "user/pipeline" from "/home/user/work/pipeline").
func projectSlug(projectPath string) string {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		abs = projectPath
	}
	// Use last two path components for readability
	dir := filepath.Base(filepath.Dir(abs))
	base := filepath.Base(abs)
	return dir + "_" + base
}

// FindProjectRoot walks up from dir looking for a dbt_project.yml or a
// .driftscope directory.
func FindProjectRoot(dir string) (string, error) {
	for {
		for _, marker := range []string{"dbt_project.yml", ".driftscope"} {
			candidate := filepath.Join(dir, marker)
			if _, err := os.Stat(candidate); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no project found (looked for dbt_project.yml or .driftscope)")
}
