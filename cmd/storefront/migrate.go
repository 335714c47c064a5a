package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/matheusmosca/growth-storefront/internal/config"
	"github.com/matheusmosca/growth-storefront/internal/logging"
	"github.com/matheusmosca/growth-storefront/internal/migrations"
)

func migrateCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and seed the catalog and the admin account",
		Long: `Apply the schema migrations and seed an empty database.

The catalog is seeded only when there are no categories yet. The admin
account is created only when ADMIN_PASSWORD is set and there are no users.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(cfg.LogLevel, cfg.LogFormat)

			db, err := sql.Open("postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("failed to open database connection: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if err := db.PingContext(ctx); err != nil {
				return fmt.Errorf("failed to reach database: %w", err)
			}

			if err := migrations.Apply(ctx, db); err != nil {
				return err
			}
			logger.Infof("✅ Applied %d migrations", migrations.Count())

			if skipSeed {
				return nil
			}

			err = migrations.Seed(ctx, db, migrations.AdminSeed{
				Email:    cfg.AdminEmail,
				Password: cfg.AdminPassword,
				Currency: cfg.WalletCurrency,
			})
			if err != nil {
				return err
			}
			logger.Info("✅ Seed finished")
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "apply migrations without seeding")
	return cmd
}
