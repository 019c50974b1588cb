// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docgen/internal/compliance"
	"github.com/pdiddy/docgen/internal/output"
	"github.com/pdiddy/docgen/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a document against a court profile",
	Long: `Validate runs every rule of a court profile against a Markdown file and
prints one finding per rule. A metadata header written by generate is
skipped, and its profile is used when --profile is not given.

The command exits non-zero when any rule fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	profileID, _ := cmd.Flags().GetString("profile")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	header, content, _, err := output.ParseMarkdown(data)
	if err != nil {
		return err
	}
	if profileID == "" {
		profileID = header.Profile
	}
	if profileID == "" {
		return fmt.Errorf("no profile: pass --profile or validate a generated document")
	}

	a, err := newApp(loadConfig(), nil)
	if err != nil {
		return err
	}
	profile, err := a.profiles.GetProfile(profileID)
	if err != nil {
		return err
	}
	report, err := compliance.Validate(types.RenderedDocument{TemplateID: header.Template, Content: content}, profile)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		fmt.Printf("%s against %s (%s):\n", args[0], profile.ID, profile.Name)
		writeFindings(os.Stdout, report.Findings)
	}

	if !report.Compliant() {
		return fmt.Errorf("%d rule(s) failed", len(report.Failed()))
	}
	return nil
}

func init() {
	validateCmd.Flags().String("profile", "", "court profile ID (hi_family, cand, ca9, ...)")
	validateCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(validateCmd)
}
