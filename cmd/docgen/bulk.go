// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docgen/internal/output"
	"github.com/pdiddy/docgen/internal/pipeline"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <requests.yaml>",
	Short: "Generate many documents concurrently",
	Long: `Bulk reads a list of generation requests and renders them on a worker
pool (--workers, default 50). A failing request is reported and does not
stop the others. The file is YAML (or JSON) of the form:

  requests:
    - template: legal/motion-stay
      context: {court: ..., plaintiff: ...}
      evidence: [a, b]
      profile: hi_family

Successful documents are written to output_dir and recorded in the history
database. The command exits non-zero when any request failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBulk,
}

// bulkFile is the on-disk layout of a bulk request file.
type bulkFile struct {
	Requests []pipeline.Request `yaml:"requests"`
}

func runBulk(cmd *cobra.Command, args []string) error {
	noSave, _ := cmd.Flags().GetBool("no-history")

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading requests: %w", err)
	}
	var file bulkFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing requests %s: %w", args[0], err)
	}
	if len(file.Requests) == 0 {
		return fmt.Errorf("no requests in %s", args[0])
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
	res := a.pipeline.GenerateBatch(ctx, file.Requests, os.Stdout)

	docs := res.Documents()
	for _, doc := range docs {
		if _, err := output.SaveMarkdown(cfg.OutputDir, doc); err != nil {
			return err
		}
	}
	if !noSave && len(docs) > 0 {
		if err := a.record(ctx, docs...); err != nil {
			return err
		}
	}

	if res.HasFailures() {
		return fmt.Errorf("%d of %d request(s) failed", res.Failed, res.Total())
	}
	return nil
}

func init() {
	bulkCmd.Flags().String("output-dir", "", "directory for rendered documents (default output_dir)")
	bulkCmd.Flags().Bool("no-history", false, "do not record documents in the history database")

	rootCmd.AddCommand(bulkCmd)
}
