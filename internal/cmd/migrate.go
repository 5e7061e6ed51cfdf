package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/db/mongo"
	"github.com/salmannsharif/User-Profile-Manager/internal/infrastructure/db/postgres"
	"github.com/salmannsharif/User-Profile-Manager/internal/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply schema migrations (postgres) or indexes (mongo)",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}

			switch cfg.StoreDriver {
			case config.DriverPostgres:
				db, err := postgres.Open(ctx, cfg.Postgres.DSN)
				if err != nil {
					return err
				}
				defer db.Close()
				return postgres.Migrate(ctx, db, args[0])

			case config.DriverMongo:
				if args[0] != "up" {
					return fmt.Errorf("mongo supports only migrate up")
				}
				client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
				if err != nil {
					return err
				}
				defer func() { _ = client.Disconnect(ctx) }()
				return mongo.EnsureIndexes(ctx, db)

			default:
				return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
			}
		},
	}
}
