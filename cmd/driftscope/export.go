package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/driftscope/driftscope/pkg/export"
)

func newExportCmd() *cobra.Command {
	var (
		runType     string
		input       string
		output      string
		projectPath string
		primaryKeys []string
		sideBySide  bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Reshape a diff run result into CSV",
		Long: `Reads a run result JSON file and writes its tabular form as CSV.
Base and current rows are merged inline by default; pass --side-by-side to
keep the two sides in separate columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(exportOpts{
				runType:     runType,
				input:       input,
				output:      output,
				projectPath: projectPath,
				primaryKeys: primaryKeys,
				sideBySide:  sideBySide,
			})
		},
	}

	cmd.Flags().StringVar(&runType, "run-type", "", "Run type: query_diff, value_diff, profile_diff, row_count_diff, or top_k_diff (required)")
	cmd.Flags().StringVar(&input, "input", "", "Path to run result JSON (required)")
	cmd.Flags().StringVar(&output, "output", "", "Output CSV path (default: stdout)")
	cmd.Flags().StringVar(&projectPath, "project-path", "", "Path to project root (default: detect from cwd)")
	cmd.Flags().StringSliceVar(&primaryKeys, "primary-key", nil, "Join-key column (repeatable; default: from config or positional)")
	cmd.Flags().BoolVar(&sideBySide, "side-by-side", false, "Emit base__x / current__x columns instead of merged cells")
	_ = cmd.MarkFlagRequired("run-type")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

type exportOpts struct {
	runType     string
	input       string
	output      string
	projectPath string
	primaryKeys []string
	sideBySide  bool
}

func runExport(opts exportOpts) error {
	data, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("reading run result: %w", err)
	}

	exportOpts := export.Options{
		PrimaryKeys: opts.primaryKeys,
		SideBySide:  opts.sideBySide,
	}

	// Config fills in whatever the flags left unset. Missing project config
	// is fine; exports work on bare files too.
	if root, err := resolveProject(opts.projectPath); err == nil {
		cfg := loadConfig(root)
		if len(exportOpts.PrimaryKeys) == 0 {
			exportOpts.PrimaryKeys = cfg.Export.PrimaryKeys[opts.runType]
		}
		if !exportOpts.SideBySide {
			exportOpts.SideBySide = cfg.Export.SideBySide
		}
	}

	table := export.Extract(opts.runType, json.RawMessage(data), exportOpts)
	if table == nil {
		return fmt.Errorf("run result has no exportable table for run type %q", opts.runType)
	}

	out := os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := export.WriteCSV(out, table); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	if opts.output != "" {
		fmt.Fprintf(os.Stderr, "Exported %d rows to %s\n", len(table.Rows), opts.output)
	}

	return nil
}
