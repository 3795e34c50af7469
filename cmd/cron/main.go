package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"

	"pointsdraw/internal/container"
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

type CronJob interface {
	Start(cronRunner *cron.Cron) error
}

func main() {
	vs, err := env.EnvsRequired(
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	injector := container.NewContainer(vs)
	logging.Setup(logging.Config{Service: "cron", Mode: vs["API_MODE"], File: vs["LOG_FILE"]})

	app := &cli.App{
		Name: "cronjob",
		Commands: []*cli.Command{
			commandCronjob(injector),
			commandDispatch(injector),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandCronjob(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "cron",
		Usage: "run the scheduled jobs",
		Action: func(c *cli.Context) error {
			serviceTransfer, err := do.Invoke[*services.ServiceTransfer](injector)
			if err != nil {
				return err
			}
			serviceRandomness, err := do.Invoke[*services.ServiceRandomness](injector)
			if err != nil {
				return err
			}
			serviceConfig, err := do.Invoke[*services.ServiceConfig](injector)
			if err != nil {
				return err
			}

			cronRunner := cron.New()
			jobs := []CronJob{
				NewTransferJob(serviceTransfer, serviceConfig),
				NewRandomnessJob(serviceRandomness, serviceConfig),
			}
			for _, job := range jobs {
				if err := job.Start(cronRunner); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("start cronjob")
			cronRunner.Start()
			<-ctx.Done()
			<-cronRunner.Stop().Done()
			return nil
		},
	}
}

func commandDispatch(injector *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "dispatch",
		Usage: "send pending prize transfers once",
		Action: func(c *cli.Context) error {
			serviceTransfer, err := do.Invoke[*services.ServiceTransfer](injector)
			if err != nil {
				return err
			}

			sent, err := serviceTransfer.DispatchPending(c.Context)
			if err != nil {
				return err
			}

			slog.Info("dispatched pending transfers", "sent", sent)
			return nil
		},
	}
}
