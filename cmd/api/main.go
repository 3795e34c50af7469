package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hiendaovinh/toolkit/pkg/env"
	"github.com/joho/godotenv"
	"github.com/samber/do"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"pointsdraw/internal/api/handler"
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

func main() {
	vs, err := env.EnvsRequired(
		"JWT_SECRET",
		"DB_DSN",
	)
	if err != nil {
		log.Fatal(err)
	}

	injector := container.NewContainer(vs)
	logging.Setup(logging.Config{
		Service: "api",
		Mode:    vs["API_MODE"],
		File:    vs["LOG_FILE"],
	})

	app := &cli.App{
		Name: "api",
		Commands: []*cli.Command{
			commandServer(injector),
			commandToken(injector),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func commandServer(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "server",
		Usage: "start the web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Value: "0.0.0.0:8080",
				Usage: "serve address",
			},
		},
		Action: func(c *cli.Context) error {
			vs := do.MustInvokeNamed[map[string]string](container, "envs")
			router, err := handler.New(&handler.Config{
				Container:     container,
				Mode:          vs["API_MODE"],
				Origins:       strings.Split(vs["API_ORIGINS"], ","),
				CustodyAPIKey: vs["CUSTODY_API_KEY"],
			})
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              c.String("addr"),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errWg, errCtx := errgroup.WithContext(ctx)

			errWg.Go(func() error {
				slog.Info("listen and serve", "addr", c.String("addr"), "mode", vs["API_MODE"])
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			})

			errWg.Go(func() error {
				<-errCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})

			return errWg.Wait()
		},
	}
}

// commandToken issues a bearer token for an address, for operators and the
// oracle's callback client.
func commandToken(container *do.Injector) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "issue an access token for an address",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 24 * time.Hour,
			},
		},
		Action: func(c *cli.Context) error {
			authentication, err := do.Invoke[*services.Authentication](container)
			if err != nil {
				return err
			}

			token, err := authentication.CreateToken(c.String("address"), c.Duration("ttl"))
			if err != nil {
				return err
			}

			fmt.Println(token)
			return nil
		},
	}
}
