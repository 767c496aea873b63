// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/cache"
	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/document"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect cached extraction records",
}

var cacheShowCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "List the cached entries for a document",
	Long: `Show lists every cache entry held for the document at path, including
legacy entries, with its method, extractor version, and whether a lookup
would accept it.`,
	Args: cobra.ExactArgs(1),
	RunE: runCacheShow,
}

func runCacheShow(cmd *cobra.Command, args []string) error {
	key, err := document.NewFileProvider().Identity(args[0])
	if err != nil {
		return err
	}
	cfg := loadConfig(viper.GetViper())
	store, err := cache.Open(cfg.Cache, cache.WithLogger(logger))
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Entries(cmd.Context(), key)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return encode(os.Stdout, "json", entries)
	}
	printEntries(os.Stdout, key, entries)
	return nil
}

func printEntries(w io.Writer, key string, entries []cache.Info) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No cached entries for %s.\n", key)
		return
	}
	fmt.Fprintf(w, "%-14s  %-7s  %-20s  %-6s  %s\n", "Method", "Version", "Extracted", "Usable", "Location")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		extracted := "-"
		if !e.ExtractionTime.IsZero() {
			extracted = e.ExtractionTime.Local().Format(time.DateTime)
		}
		usable := "yes"
		if !e.Usable {
			usable = "no"
		}
		fmt.Fprintf(w, "%-14s  %-7s  %-20s  %-6s  %s\n", e.Method, e.Version, extracted, usable, e.Location)
		if e.Problem != "" {
			fmt.Fprintf(w, "    %s\n", e.Problem)
		}
	}
}

func init() {
	cacheShowCmd.Flags().Bool("json", false, "print entries as JSON")

	cacheCmd.AddCommand(cacheShowCmd)
	rootCmd.AddCommand(cacheCmd)
}
