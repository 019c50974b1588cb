// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List and inspect court profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List court profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(loadConfig(), nil)
		if err != nil {
			return err
		}
		fmt.Printf("%-12s  %-18s  %-6s  %s\n", "ID", "Level", "Rules", "Name")
		for _, p := range a.profiles.List() {
			fmt.Printf("%-12s  %-18s  %-6d  %s\n", p.ID, p.Level, len(p.Rules), p.Name)
		}
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <profile-id>",
	Short: "Print a court profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(loadConfig(), nil)
		if err != nil {
			return err
		}
		p, err := a.profiles.GetProfile(args[0])
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(p)
	},
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}
