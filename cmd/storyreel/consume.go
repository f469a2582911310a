package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"storyreel/app"
)

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Run the pipeline for every request on KAFKA_TOPIC_RUN_REQUESTS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BOOTSTRAP_SERVERS is required for consume")
			}
			logger := slog.New(newHandler(cfg.LogLevel))

			a, err := app.Build(cmd.Context(), cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.ConsumeRuns(cmd.Context())
		},
	}
}
