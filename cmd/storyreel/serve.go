package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"storyreel/api"
	"storyreel/app"
	"storyreel/config"
	"storyreel/state"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the status API and run on CRON_SCHEDULE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			st := state.NewManager(config.MaxLogEntries)
			logger := slog.New(st.Handler(newHandler(cfg.LogLevel), slog.LevelInfo))

			a, err := app.Build(cmd.Context(), cfg, logger, st)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := api.NewServer(cmd.Context(), a.Orchestrator, st, fmt.Sprintf(":%d", cfg.Port), logger)
			srv.Start()
			if cfg.CronSchedule != "" {
				if err := srv.StartCron(cfg.CronSchedule); err != nil {
					return err
				}
			}

			<-cmd.Context().Done()
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
}
