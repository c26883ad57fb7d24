package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/grxp/pkg/controller/http"
	"github.com/secmon-lab/grxp/pkg/service/worker"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe(env *environment) *cli.Command {
	var addr string
	var maxBodySize int64
	var publishInterval time.Duration

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "HTTP server address",
				Value:       "127.0.0.1:8080",
				Sources:     cli.EnvVars("GRXP_ADDR"),
				Destination: &addr,
			},
			&cli.Int64Flag{
				Name:        "max-body-size",
				Usage:       "Maximum request body size in bytes",
				Value:       httpctrl.DefaultMaxBodySize,
				Sources:     cli.EnvVars("GRXP_MAX_BODY_SIZE"),
				Destination: &maxBodySize,
			},
			&cli.DurationFlag{
				Name:        "publish-interval",
				Usage:       "Publish a report bundle to the archive destination at this interval (0 disables)",
				Sources:     cli.EnvVars("GRXP_PUBLISH_INTERVAL"),
				Destination: &publishInterval,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if publishInterval > 0 {
				if !env.archive.IsConfigured() {
					return goerr.Wrap(usecase.ErrNoArchiver, "--publish-interval needs --archive-dir or --gcs-bucket")
				}
				publisher := worker.NewBundlePublisher(uc.Report, publishInterval)
				if err := publisher.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start bundle publisher")
				}
				defer publisher.Stop()
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMaxBodySize(maxBodySize)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)
			case <-ctx.Done():
				logging.Default().Info("Context cancelled, shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
