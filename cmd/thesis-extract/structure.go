// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/TonyBeam2025/ThesisInnovationEvaluation/internal/structure"
)

var structureCmd = &cobra.Command{
	Use:   "structure <path>",
	Short: "Print the section outline of a thesis",
	Long: `Structure reads one thesis and prints its detected sections with their
level, number, kind, and character span. No AI calls are made and nothing is
cached.`,
	Args: cobra.ExactArgs(1),
	RunE: runStructure,
}

func runStructure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	docs := newProvider(ctx, viper.GetString("document.text_dir"))
	text, err := docs.Text(ctx, args[0])
	if err != nil {
		return err
	}
	outline := structure.Analyze(text)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return encode(os.Stdout, "json", outline)
	}
	printOutline(os.Stdout, outline)
	return nil
}

func printOutline(w io.Writer, o structure.Outline) {
	fmt.Fprintf(w, "%-4s  %-5s  %-10s  %-50s  %s\n", "#", "Level", "Kind", "Heading", "Span")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, s := range o.Sections {
		heading := strings.Repeat("  ", max(s.Level-1, 0)) + s.Heading()
		if r := []rune(heading); len(r) > 50 {
			heading = string(r[:47]) + "..."
		}
		kind := string(s.Kind)
		if s.Tag != "" {
			kind = s.Tag
		}
		fmt.Fprintf(w, "%-4d  %-5d  %-10s  %-50s  %d-%d\n",
			s.Index, s.Level, kind, heading, s.StartOffset, s.EndOffset)
	}
	fmt.Fprintf(w, "\n%d sections, %d table of contents entries\n", len(o.Sections), len(o.TOC))
	for _, warn := range o.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func init() {
	structureCmd.Flags().Bool("json", false, "print the outline as JSON")

	rootCmd.AddCommand(structureCmd)
}
