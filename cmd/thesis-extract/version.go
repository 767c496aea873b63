// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/cache"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of thesis-extract",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "thesis-extract %s (extractor %s)\n", version, cache.ExtractorVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
