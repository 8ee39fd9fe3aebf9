package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/config"
	"github.com/delcom/foodbook/persistence"
	"github.com/delcom/foodbook/server"
)

type rootFlags struct {
	configFile string
	envFiles   []string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "foodbook",
		Short:         "Food and recipe tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files loaded before the environment")

	root.AddCommand(newServeCmd(flags), newMigrateCmd(flags))
	return root
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}

			db, err := openDB(ctx, cfg, logger, cfg.Database.AutoMigrate)
			if err != nil {
				return err
			}
			defer db.Close()

			store, err := server.NewStore(ctx, cfg.Storage)
			if err != nil {
				return err
			}

			return server.New(cfg, db, store, logger).Run(ctx)
		},
	}
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap(flags)
			if err != nil {
				return err
			}

			db, err := openDB(cmd.Context(), cfg, logger, true)
			if err != nil {
				return err
			}
			return db.Close()
		},
	}
}

func bootstrap(flags *rootFlags) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flags.configFile, flags.envFiles...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, server.NewLogger(cfg.Log, os.Stdout), nil
}

func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*bun.DB, error) {
	db, err := persistence.Open(ctx, persistence.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
		Debug:  cfg.Database.Debug,
	})
	if err != nil {
		return nil, err
	}

	if !migrate {
		return db, nil
	}

	migrations, err := foodbook.MigrationsFor(persistence.MigrationDir(cfg.Database.Driver))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	applied, err := persistence.Migrate(ctx, db, cfg.Database.Driver, migrations)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("migrations applied", "count", len(applied))

	return db, nil
}
