// Package main provides the driftscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "driftscope",
		Short: "Lineage-aware change review for data pipelines",
		Long: `Driftscope compares dependency snapshots from dbt-style projects, flags
added, removed, and modified nodes, and floods impact through the lineage.`,
		Version: version,
	}

	rootCmd.AddCommand(
		newDiffCmd(),
		newExportCmd(),
		newUICmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
