package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yigit/schoolportal/internal/app/repositories"
	"github.com/yigit/schoolportal/internal/app/services"
	"github.com/yigit/schoolportal/internal/bootstrap"
	"github.com/yigit/schoolportal/internal/config"
	"github.com/yigit/schoolportal/internal/db"
	"github.com/yigit/schoolportal/internal/pkg/logger"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply the session store migrations to the configured database",
		Action: func(c *cli.Context) error {
			cfg, database, err := openDatabase(c)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := bootstrap.Migrate(c.Context, cfg, database, logger.Component("migrate")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func sessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "maintain the postgres session store",
		Subcommands: []*cli.Command{
			{
				Name:  "sweep",
				Usage: "delete expired portal sessions",
				Action: func(c *cli.Context) error {
					cfg, database, err := openDatabase(c)
					if err != nil {
						return err
					}
					defer database.Close()

					lgr := logger.Component("sessions")
					store := repositories.NewPostgresSessionStore(database)
					authService := services.NewAuthService(store, nil, nil, cfg.SessionTTL(), lgr)
					removed, err := authService.SweepExpired(c.Context)
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintf(c.App.Writer, "Removed %d expired sessions.\n", removed)
					return nil
				},
			},
		},
	}
}

// openDatabase loads --config and connects to its database.
func openDatabase(c *cli.Context) (*config.Config, *db.PostgresDB, error) {
	cfg, err := config.LoadConfig(c.String(flagConfig))
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), 2)
	}
	database, err := db.NewPostgresDB(c.Context, cfg)
	if err != nil {
		return nil, nil, cli.Exit(err.Error(), 1)
	}
	return cfg, database, nil
}
