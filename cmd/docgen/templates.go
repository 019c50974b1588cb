// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docgen/internal/render"
	"github.com/pdiddy/docgen/internal/templates"
	"github.com/pdiddy/docgen/pkg/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List and inspect templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := templates.Open(loadConfig().TemplatesDir)
		catalog, err := loader.Catalog()
		if err != nil {
			return err
		}

		categories := make([]string, 0, len(catalog))
		for c := range catalog {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("%s:\n", c)
			for _, id := range catalog[types.Category(c)] {
				fmt.Printf("  %s\n", id)
			}
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <template-id>",
	Short: "Show a template's metadata, placeholders, and body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bodyOnly, _ := cmd.Flags().GetBool("body")

		t, err := templates.Open(loadConfig().TemplatesDir).Load(args[0])
		if err != nil {
			return err
		}
		if bodyOnly {
			fmt.Print(t.Body)
			return nil
		}

		w := os.Stdout
		fmt.Fprintf(w, "ID:           %s\n", t.ID)
		fmt.Fprintf(w, "Category:     %s\n", t.Category)
		if t.Title != "" {
			fmt.Fprintf(w, "Title:        %s\n", t.Title)
		}
		if t.Description != "" {
			fmt.Fprintf(w, "Description:  %s\n", t.Description)
		}
		if t.Profile != "" {
			fmt.Fprintf(w, "Profile:      %s\n", t.Profile)
		}
		fmt.Fprintf(w, "Placeholders: %s\n", strings.Join(render.Placeholders(t.Body), ", "))
		fmt.Fprintf(w, "\n%s", t.Body)
		return nil
	},
}

func init() {
	templatesShowCmd.Flags().Bool("body", false, "print only the template body")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	rootCmd.AddCommand(templatesCmd)
}
