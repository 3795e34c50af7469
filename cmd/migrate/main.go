package main

import (
	"fmt"
	"log"
	"os"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"

	"pointsdraw/internal/container"
	"pointsdraw/internal/datastore"
	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/logging"
	"pointsdraw/internal/services"
)

func init() {
	// for development
	//nolint:errcheck
	godotenv.Load("../../.env")

	// for production
	//nolint:errcheck
	godotenv.Load("./.env")
}

func main() {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	injector := container.NewContainer(vs)
	logging.Setup(logging.Config{Service: "migrate", Mode: vs["API_MODE"], File: vs["LOG_FILE"]})

	app := &cli.App{
		Name: "migrate",
		Commands: []*cli.Command{
			commandMigration(injector),
			commandInstantiate(injector),
			commandConfig(injector),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandMigration(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the ledger tables",
		Action: func(c *cli.Context) error {
			db, err := do.Invoke[*bun.DB](injector)
			if err != nil {
				return err
			}

			if err := datastore.CreateTables(c.Context, db); err != nil {
				return err
			}

			log.Println("migrated")
			return nil
		},
	}
}

func commandInstantiate(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "instantiate",
		Usage: "create the ledger state; runs once",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "admin", Required: true},
			&cli.StringFlag{Name: "oracle", Required: true, Usage: "address allowed to deliver randomness"},
			&cli.Uint64Flag{Name: "prize-cost", Required: true},
			&cli.StringFlag{Name: "name", Value: "Points"},
			&cli.StringFlag{Name: "description"},
		},
		Action: func(c *cli.Context) error {
			serviceLedger, err := do.Invoke[*services.ServiceLedger](injector)
			if err != nil {
				return err
			}

			state, err := serviceLedger.Instantiate(c.Context, models.InstantiateParams{
				Admin:            c.String("admin"),
				OracleAddress:    c.String("oracle"),
				PrizeCost:        c.Uint64("prize-cost"),
				ShortDescription: c.String("description"),
				Name:             c.String("name"),
			}, services.LEDGER_VERSION)
			if err != nil {
				return err
			}

			fmt.Printf("instantiated %s (%s) admin=%s oracle=%s prize_cost=%d\n", state.Name, state.Symbol, state.Admin, state.OracleAddress, state.PrizeCost)
			return nil
		},
	}
}

func commandConfig(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name:      "config",
		Usage:     "set a runtime config value",
		ArgsUsage: "KEY VALUE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return cli.ShowSubcommandHelp(c)
			}

			serviceConfig, err := do.Invoke[*services.ServiceConfig](injector)
			if err != nil {
				return err
			}

			return serviceConfig.SetConfig(c.Context, c.Args().Get(0), c.Args().Get(1))
		},
	}
}
