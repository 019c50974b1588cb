// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docgen/internal/docstore"
	"github.com/pdiddy/docgen/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously generated documents",
	Long: `History reads the SQLite database (db_path) that generate, bulk, and
serve record into. Use subcommands to list, show, or export entries.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated documents, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := historyOptsFromFlags(cmd)
		store, err := docstore.Open(loadConfig().DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		docs, err := store.List(cmd.Context(), opts)
		if err != nil {
			return err
		}
		if len(docs) == 0 {
			fmt.Println("No documents found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-10s  %s\n", "ID", "Generated", "Template", "Profile", "Status")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 115))
		for _, d := range docs {
			status := "-"
			if d.Validated() {
				status = "compliant"
				if !d.Compliant() {
					status = "FAILED"
				}
			}
			tmpl := d.TemplateID
			if len(tmpl) > 30 {
				tmpl = tmpl[:27] + "..."
			}
			fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-30s  %-10s  %s\n",
				d.ID, d.Metadata.GeneratedAt.Local().Format("2006-01-02 15:04:05"), tmpl, d.ProfileID, status)
		}
		fmt.Fprintf(os.Stdout, "\n%d documents\n", len(docs))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored document with its metadata header",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := docstore.Open(loadConfig().DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		doc, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := output.WriteMarkdown(os.Stdout, doc); err != nil {
			return err
		}
		printFindings(doc)
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export history to YAML or JSON",
	Long: `Export writes the history (or a filtered subset) to stdout or --out.
It accepts the same filters as list; --limit defaults to all entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		withContent, _ := cmd.Flags().GetBool("content")

		opts := historyOptsFromFlags(cmd)
		store, err := docstore.Open(loadConfig().DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		w := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			defer f.Close()
			w = f
		}

		switch format {
		case "yaml", "":
			err = store.ExportYAML(cmd.Context(), w, opts, withContent)
		case "json":
			err = store.ExportJSON(cmd.Context(), w, opts, withContent)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		if outPath != "" {
			fmt.Fprintf(os.Stderr, "Exported to %s\n", outPath)
		}
		return nil
	},
}

func historyOptsFromFlags(cmd *cobra.Command) docstore.QueryOptions {
	template, _ := cmd.Flags().GetString("template")
	profile, _ := cmd.Flags().GetString("profile")
	contains, _ := cmd.Flags().GetString("contains")
	since, _ := cmd.Flags().GetDuration("since")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := docstore.QueryOptions{
		TemplateID: template,
		ProfileID:  profile,
		Contains:   contains,
		Limit:      limit,
	}
	if since > 0 {
		opts.Since = time.Now().Add(-since)
	}

	if cmd.Flags().Changed("compliant") {
		v, _ := cmd.Flags().GetBool("compliant")
		opts.Compliant = &v
	}
	return opts
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().String("template", "", "filter by template ID")
		c.Flags().String("profile", "", "filter by court profile")
		c.Flags().String("contains", "", "filter by text in the rendered content")
		c.Flags().Duration("since", 0, "only documents generated within this duration (e.g. 24h)")
		c.Flags().Bool("compliant", false, "filter by compliance (--compliant or --compliant=false)")
	}
	historyListCmd.Flags().Int("limit", 50, "maximum documents to list")
	historyExportCmd.Flags().Int("limit", -1, "maximum documents to export (-1 = all)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "write to this file instead of stdout")
	historyExportCmd.Flags().Bool("content", false, "include rendered content")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
