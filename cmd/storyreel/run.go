package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"storyreel/app"
	"storyreel/types"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute one pipeline run and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := slog.New(newHandler(cfg.LogLevel))

			a, err := app.Build(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			category, _ := cmd.Flags().GetString("category")
			count, _ := cmd.Flags().GetInt("count")
			sum, err := a.Orchestrator.Run(cmd.Context(), types.RunRequest{Category: category, Count: count})
			if err != nil {
				return err
			}
			cmd.Printf("published %d parts from %d posts (%d failed)\n", sum.PartsPublished, sum.PostsProcessed, sum.PartsFailed)
			return nil
		},
	}
	cmd.Flags().String("category", "", "Override the subreddit or feed for this run")
	cmd.Flags().Int("count", 0, "Override the number of posts for this run")
	return cmd
}
