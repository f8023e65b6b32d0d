// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meshintel/litradar/internal/agent"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the agent profiles for a feed variant",
	Long: `Agents prints the swarm roster for a feed variant: each profile's name,
base validation score, and site restrictions. Higher-scored profiles win
ties during duplicate removal.`,
	RunE: runAgents,
}

func init() {
	agentsCmd.Flags().String("variant", "ai", "feed variant: ai, live, or patent")

	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, args []string) error {
	variant, err := parseVariant(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-24s  %-5s  %s\n", "Profile", "Score", "Domains")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, p := range agent.DefaultProfiles(variant) {
		domains := strings.Join(p.Domains, ", ")
		if domains == "" {
			domains = "(unrestricted)"
		}
		fmt.Fprintf(w, "%-24s  %-5d  %s\n", p.Name, p.BaseScore, domains)
	}
	return nil
}
