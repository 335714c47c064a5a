package main

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/matheusmosca/growth-storefront/internal/config"
	"github.com/matheusmosca/growth-storefront/internal/database"
	"github.com/matheusmosca/growth-storefront/internal/logging"
	"github.com/matheusmosca/growth-storefront/internal/monitor"
)

func monitorCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the AI monitor for stalled orders without the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.GeminiAPIKey == "" {
				return errors.New("GEMINI_API_KEY is required to run the monitor")
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)

			ctx := cmd.Context()
			pool, err := database.Connect(ctx, cfg.DSN(), logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			mon := newMonitor(cfg, pool, logger)

			if once {
				result, err := mon.RunOnce(ctx)
				if err != nil {
					return err
				}
				logger.WithField("stalled", result.Stalled).Info("✅ AI Monitor pass finished")
				return nil
			}

			scheduler := monitor.NewCron(logger)
			if _, err := mon.Schedule(scheduler, cfg.MonitorSchedule); err != nil {
				return err
			}
			scheduler.Start()
			logger.Infof("🤖 AI Monitor scheduled (%s)", cfg.MonitorSchedule)

			<-ctx.Done()
			<-scheduler.Stop().Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")
	return cmd
}

func newMonitor(cfg *config.Config, pool *pgxpool.Pool, logger logrus.FieldLogger) *monitor.Monitor {
	advisor := monitor.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
	return monitor.New(monitor.NewRepository(pool), advisor, cfg.MonitorStallAfter, logger)
}
