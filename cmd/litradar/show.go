// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/meshintel/litradar/internal/swarm"
)

var showCmd = &cobra.Command{
	Use:   "show [run-file]",
	Short: "Re-render a saved run without re-querying",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("json", false, "output records as JSON")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	rf, err := swarm.ReadRunFile(args[0])
	if err != nil {
		return err
	}

	out := swarm.Output{
		Records:     rf.Records,
		DupsRemoved: rf.Summary.DupsRemoved,
		AgentErrors: rf.Summary.AgentErrors,
	}
	asJSON, _ := cmd.Flags().GetBool("json")
	return render(cmd, out, asJSON)
}
