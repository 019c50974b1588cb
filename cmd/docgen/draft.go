// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/internal/draft"
	"github.com/pdiddy/docgen/pkg/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft <paragraphs.yaml>",
	Short: "Append exhibit citations to drafted paragraphs",
	Long: `Draft reads paragraphs with the evidence each one cites and prints them
with citation groups such as (Ex. A, pp. 1-3, 7; B, pp. 12) appended.
Evidence comes from --evidence or evidence_file. The input looks like:

  paragraphs:
    - text: Respondent failed to appear.
      evidence: [a, b]

With --require-citation every paragraph must cite at least one source.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraft,
}

func runDraft(cmd *cobra.Command, args []string) error {
	requireCitation, _ := cmd.Flags().GetBool("require-citation")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading paragraphs: %w", err)
	}
	var file types.DraftFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing paragraphs %s: %w", args[0], err)
	}

	a, err := newApp(loadConfig(), nil)
	if err != nil {
		return err
	}

	var opts []draft.Option
	if requireCitation {
		opts = append(opts, draft.WithRequireCitation())
	}
	text, err := draft.New(a.evidence, opts...).DraftDocument(file.Paragraphs)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}

func init() {
	draftCmd.Flags().Bool("require-citation", false, "fail on paragraphs that cite no evidence")

	rootCmd.AddCommand(draftCmd)
}
