package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/shoileazeez/portfolio/internal/auth"
	"github.com/shoileazeez/portfolio/internal/config"
	"github.com/shoileazeez/portfolio/internal/db"
	"github.com/shoileazeez/portfolio/internal/db/migrate"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "portfolioctl",
		Usage: "admin tooling for the portfolio backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env",
				Value: "development",
				Usage: "config section to use [dev | development | prod | production]",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "./config.toml",
				Usage: "path for the TOML config file",
			},
		},
		Commands: []*cli.Command{
			createAdminCmd(),
			hashPasswordCmd(),
			migrateCmd(),
		},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("env"), c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func dbPoolParams(cfg *config.Config) db.NewDBPoolParams {
	return db.NewDBPoolParams{
		DatabaseURL: cfg.DatabaseURL,
		DBHost:      cfg.PostgresHost,
		DBPort:      cfg.PostgresPort,
		DBName:      cfg.PostgresDBName,
		DBUser:      cfg.PostgresUser,
		DBPassword:  cfg.PostgresPassword,
	}
}

func createAdminCmd() *cli.Command {
	return &cli.Command{
		Name:      "create-admin",
		Usage:     "create an admin user that can log into the admin area",
		ArgsUsage: "<email> <password>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("usage: portfolioctl create-admin <email> <password>")
			}
			email, password := c.Args().Get(0), c.Args().Get(1)

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			dbPool, err := db.NewDBPool(c.Context, dbPoolParams(cfg))
			if err != nil {
				return fmt.Errorf("new db pool: %w", err)
			}
			defer dbPool.Close()

			authService := auth.NewService(
				auth.NewAdminRepo(dbPool),
				auth.NewPasswordHasher(cfg.BcryptCost),
				// tokens are not issued here
				nil,
			)

			admin, err := authService.CreateAdmin(c.Context, email, password)
			if err != nil {
				if errors.Is(err, auth.ErrAdminExists) {
					return fmt.Errorf("admin with email [%s] already exists", email)
				}
				return fmt.Errorf("create admin: %w", err)
			}

			_, _ = fmt.Fprintf(c.App.Writer, "admin created: id=%d email=%s\n", admin.ID, admin.Email)
			return nil
		},
	}
}

func hashPasswordCmd() *cli.Command {
	return &cli.Command{
		Name:      "hash-password",
		Usage:     "print the bcrypt hash of a password",
		ArgsUsage: "<password>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "cost",
				Value: auth.DefaultBcryptCost,
				Usage: "bcrypt cost",
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 || c.Args().First() == "" {
				return errors.New("usage: portfolioctl hash-password <password>")
			}

			hash, err := auth.NewPasswordHasher(c.Int("cost")).Hash(c.Args().First())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(c.App.Writer, hash)
			return nil
		},
	}
}

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or roll back the database schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "direction",
				Value: migrate.DirectionUp,
				Usage: "migration direction [up | down]",
			},
		},
		Action: func(c *cli.Context) error {
			direction := c.String("direction")
			if direction != migrate.DirectionUp && direction != migrate.DirectionDown {
				return fmt.Errorf("%w, got %q", migrate.ErrInvalidDirection, direction)
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			if err := migrate.Run(dbPoolParams(cfg).DSN(), direction); err != nil {
				return err
			}
			log.Infof("migrations applied, direction: %s", direction)
			_, _ = fmt.Fprintf(c.App.Writer, "migrations applied (%s)\n", direction)
			return nil
		},
	}
}
