package main

import (
	"github.com/spf13/cobra"

	"storyreel/tui"
)

func monitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Watch a running storyreel server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, _ := cmd.Flags().GetString("url")
			return tui.Run(url)
		},
	}
	cmd.Flags().String("url", "http://localhost:8080", "Base URL of the storyreel server")
	return cmd
}
