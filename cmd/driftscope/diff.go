package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/driftscope/driftscope/pkg/config"
	"github.com/driftscope/driftscope/pkg/lineage"
	"github.com/driftscope/driftscope/pkg/manifest"
	"github.com/driftscope/driftscope/pkg/review"
	"github.com/driftscope/driftscope/pkg/surface"
)

func newDiffCmd() *cobra.Command {
	var (
		basePath    string
		currentPath string
		projectPath string
		outputFmt   string
		focus       string
		noSave      bool
	)

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two dependency snapshots and classify the changes",
		Long: `Loads a base and a current manifest, builds the unified lineage graph,
and reports added, removed, modified, and impacted nodes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(diffOpts{
				basePath:    basePath,
				currentPath: currentPath,
				projectPath: projectPath,
				outputFmt:   outputFmt,
				focus:       focus,
				noSave:      noSave,
			})
		},
	}

	cmd.Flags().StringVar(&basePath, "base", "", "Path to base manifest (default: <base_target_dir>/<manifest_name>)")
	cmd.Flags().StringVar(&currentPath, "current", "", "Path to current manifest (default: <target_dir>/<manifest_name>)")
	cmd.Flags().StringVar(&projectPath, "project-path", "", "Path to project root (default: detect from cwd)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text, markdown, or json")
	cmd.Flags().StringVar(&focus, "focus", "", "Highlight the lineage path through this node id")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip caching the computed graph")

	return cmd
}

type diffOpts struct {
	basePath    string
	currentPath string
	projectPath string
	outputFmt   string
	focus       string
	noSave      bool
}

func runDiff(opts diffOpts) error {
	root, err := resolveProject(opts.projectPath)
	if err != nil {
		return err
	}
	cfg := loadConfig(root)

	basePath := firstNonEmpty(opts.basePath,
		filepath.Join(root, cfg.Project.BaseTargetDir, cfg.Project.ManifestName))
	currentPath := firstNonEmpty(opts.currentPath,
		filepath.Join(root, cfg.Project.TargetDir, cfg.Project.ManifestName))

	base, err := manifest.LoadSnapshot(basePath)
	if err != nil {
		return fmt.Errorf("loading base manifest: %w", err)
	}
	current, err := manifest.LoadSnapshot(currentPath)
	if err != nil {
		return fmt.Errorf("loading current manifest: %w", err)
	}

	g := lineage.Build(base, current)
	if opts.focus != "" {
		lineage.HighlightPath(g, opts.focus)
		if len(g.HighlightedNodeIDs()) == 0 {
			fmt.Fprintf(os.Stderr, "Warning: focus node %q not in graph\n", opts.focus)
		}
	}

	summary := review.Summarize(g)

	if !opts.noSave {
		saveCachedGraph(root, g)
	}

	var renderer surface.Renderer
	switch opts.outputFmt {
	case "json":
		renderer = &surface.JSONRenderer{}
	case "markdown":
		renderer = &surface.MarkdownRenderer{}
	default:
		renderer = &surface.TerminalRenderer{}
	}
	if err := renderer.Render(os.Stdout, g, summary); err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	return nil
}

// saveCachedGraph persists a computed graph to the graph cache directory so
// the ui command can serve it later.
func saveCachedGraph(root string, g *lineage.Graph) {
	path := filepath.Join(config.GraphDir(root), g.ID+".json")
	if err := lineage.SaveGraph(path, g); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to cache graph: %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "Graph saved: %s\n", path)
}

func resolveProject(projectPath string) (string, error) {
	if projectPath != "" {
		abs, err := filepath.Abs(projectPath)
		if err != nil {
			return "", fmt.Errorf("resolving project path: %w", err)
		}
		return config.FindProjectRoot(abs)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	return config.FindProjectRoot(cwd)
}

func loadConfig(root string) *config.Config {
	cfgFile := config.FindConfigFile(root)
	if cfgFile == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
