// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docgen/internal/output"
	"github.com/pdiddy/docgen/internal/pipeline"
	"github.com/pdiddy/docgen/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <template-id>",
	Short: "Render one document from a template",
	Long: `Generate renders a template with the given context, optionally appends
exhibit citations for --cite evidence IDs, and optionally validates the
result against a court profile.

Context values come from --context (a YAML map) and repeated --set
key=value flags. The date is filled in automatically, as are the
defaults: map in docgen.yaml.

The document is written to output_dir as Markdown with a metadata header
unless --stdout is given, and recorded in the history database.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	contextFile, _ := cmd.Flags().GetString("context")
	pairs, _ := cmd.Flags().GetStringArray("set")
	cite, _ := cmd.Flags().GetStringSlice("cite")
	profile, _ := cmd.Flags().GetString("profile")
	validate, _ := cmd.Flags().GetBool("validate")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	noSave, _ := cmd.Flags().GetBool("no-history")
	publish, _ := cmd.Flags().GetBool("publish")

	rctx, err := parseContext(contextFile, pairs)
	if err != nil {
		return err
	}

	cfg := loadConfig()
	if dir, _ := cmd.Flags().GetString("output-dir"); dir != "" {
		cfg.OutputDir = dir
	}
	a, err := newApp(cfg, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := a.pipeline.Generate(ctx, pipeline.Request{
		TemplateID:         args[0],
		Context:            rctx,
		EvidenceIDs:        splitIDs(cite),
		ProfileID:          profile,
		UseTemplateProfile: validate,
	})
	if err != nil {
		return err
	}

	if toStdout {
		if err := output.WriteMarkdown(os.Stdout, doc); err != nil {
			return err
		}
	} else {
		path, err := output.SaveMarkdown(cfg.OutputDir, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	}
	printFindings(doc)

	if !noSave {
		if err := a.record(ctx, doc); err != nil {
			return err
		}
	}
	if publish {
		a.publish(ctx, doc)
	}
	return nil
}

// record saves doc to the history database.
func (a *app) record(ctx context.Context, docs ...*types.RenderedDocument) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveAll(ctx, docs)
}

// publish announces doc to every configured destination. Failures are
// reported and do not fail the command.
func (a *app) publish(ctx context.Context, doc *types.RenderedDocument) {
	pubs := a.publishers()
	if len(pubs) == 0 {
		a.logger.Warn("no publishers configured", "hint", "create .secrets/slack-webhook-url")
		return
	}
	for _, p := range pubs {
		if err := p.Publish(ctx, doc); err != nil {
			a.logger.Error("publish failed", "destination", p.Name(), "id", doc.ID, "error", err)
			continue
		}
		a.logger.Info("published", "destination", p.Name(), "id", doc.ID)
	}
}

// printFindings writes a compliance summary to stderr for validated documents.
func printFindings(doc *types.RenderedDocument) {
	if !doc.Validated() {
		return
	}
	fmt.Fprintf(os.Stderr, "Compliance (%s):\n", doc.ProfileID)
	writeFindings(os.Stderr, doc.Findings)
}

func init() {
	generateCmd.Flags().String("context", "", "YAML file of context values")
	generateCmd.Flags().StringArray("set", nil, "context value as key=value (repeatable)")
	generateCmd.Flags().StringSlice("cite", nil, "evidence IDs to cite, comma-separated")
	generateCmd.Flags().String("profile", "", "court profile to validate against")
	generateCmd.Flags().Bool("validate", false, "validate against the template's profile when --profile is not set")
	generateCmd.Flags().String("output-dir", "", "directory for rendered documents (default output_dir)")
	generateCmd.Flags().Bool("stdout", false, "write the document to stdout instead of a file")
	generateCmd.Flags().Bool("no-history", false, "do not record the document in the history database")
	generateCmd.Flags().Bool("publish", false, "announce the document to configured publishers")

	rootCmd.AddCommand(generateCmd)
}
