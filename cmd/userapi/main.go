package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/user-api/internal/config"
	"github.com/deppfellow/user-api/internal/database"
	"github.com/deppfellow/user-api/internal/handler"
	"github.com/deppfellow/user-api/internal/logger"
	"github.com/deppfellow/user-api/internal/repository"
	"github.com/deppfellow/user-api/internal/router"
	"github.com/deppfellow/user-api/internal/server"
	"github.com/deppfellow/user-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

const defaultShutdownTimeout = 30 * time.Second

func main() {
	app := &cli.App{
		Name:  "userapi",
		Usage: "user management HTTP API",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		// "userapi" without a command serves.
		Action: serve,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "run the HTTP server",
		Action: serve,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Usage: "time allowed for in-flight requests on shutdown",
				Value: defaultShutdownTimeout,
			},
			&cli.BoolFlag{
				Name:  "skip-migrations",
				Usage: "do not apply pending migrations on startup",
			},
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Action: func(c *cli.Context) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return database.Migrate(c.Context, &log, cfg.Database.DSN())
		},
		Subcommands: []*cli.Command{
			{
				Name:  "status",
				Usage: "print the current and latest schema version",
				Action: func(c *cli.Context) error {
					cfg, err := config.LoadConfig()
					if err != nil {
						return err
					}

					status, err := database.Status(c.Context, cfg.Database.DSN())
					if err != nil {
						return err
					}

					fmt.Printf("current: %d\nlatest:  %d\nup to date: %t\n", status.Current, status.Latest, status.UpToDate())
					return nil
				},
			},
		},
	}
}

func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, logger.NewLogger(cfg.Observability), nil
}

func serve(c *cli.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return fmt.Errorf("failed to initialize New Relic: %w", err)
	}
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	// Local setups usually run migrations by hand with "userapi migrate".
	if cfg.Primary.Env != "local" && !c.Bool("skip-migrations") {
		if err := database.Migrate(c.Context, &log, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	repos := repository.NewRepositories(srv)
	services := service.NewServices(repos)
	handlers := handler.NewHandlers(srv, services)

	r := router.NewRouter(srv, handlers)
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	timeout := c.Duration("shutdown-timeout")
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
