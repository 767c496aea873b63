// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/pipeline"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <paths...>",
	Short: "Extract structured records from thesis documents",
	Long: `Extract reads each thesis, fills the structured record from cover patterns,
the document outline, and AI section analysis, and caches the result.

With one path the cache entry is written to stdout or --output. With several
paths a status line is printed per document and entries are written to the
--output directory when one is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")
	workers, _ := cmd.Flags().GetInt("workers")
	discipline, _ := cmd.Flags().GetString("discipline")
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if cmd.Flags().Changed("no-ai") {
		noAI, _ := cmd.Flags().GetBool("no-ai")
		viper.Set("extraction.disable_ai", noAI)
	}

	ctx := cmd.Context()
	p, closeFn, err := newPipeline(ctx, viper.GetViper())
	if err != nil {
		return err
	}
	defer closeFn()

	opts := pipeline.RunOptions{Force: force, Discipline: types.Discipline(discipline)}

	if len(args) == 1 {
		res, err := p.Run(ctx, args[0], opts)
		if err != nil {
			return err
		}
		return writeOutput(output, format, res.Entry)
	}

	batch := p.RunBatch(ctx, args, opts, workers, os.Stdout)
	if output != "" {
		for _, res := range batch.Results {
			if res == nil {
				continue
			}
			path := filepath.Join(output, res.Entry.Metadata.DocumentKey+"."+format)
			if err := writeOutput(path, format, res.Entry); err != nil {
				return err
			}
		}
	}
	if batch.HasFailures() {
		return fmt.Errorf("%d document(s) failed", batch.Failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().String("format", "json", "output format: json or yaml")
	extractCmd.Flags().StringP("output", "o", "", "output file (one path) or directory (several paths)")
	extractCmd.Flags().Bool("force", false, "ignore cached records and extract again")
	extractCmd.Flags().Int("workers", 1, "documents processed concurrently")
	extractCmd.Flags().String("discipline", "", "discipline override (e.g. engineering, computer_science)")
	extractCmd.Flags().Bool("no-ai", false, "skip AI analysis")

	rootCmd.AddCommand(extractCmd)
}
