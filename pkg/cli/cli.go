package cli

import (
	"context"
	"io"
	"os"

	"github.com/secmon-lab/grxp/pkg/cli/config"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	if err := newApp(version, os.Stdout).Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}
	return nil
}

func newApp(version string, w io.Writer) *cli.Command {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var env environment
	var closers []func()

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, env.Flags()...)

	return &cli.Command{
		Name:    "grxp",
		Usage:   "Flight-test risk assessment on a 4x4 severity/likelihood grid",
		Version: version,
		Writer:  w,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closeLog, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, closeLog)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting grxp",
				"version", version,
				"logger", loggerCfg,
				"sentry", sentryCfg,
			)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(&env),
			cmdMigrate(&env),
			cmdValidate(&env),
			cmdClassify(),
			cmdMatrix(&env),
			cmdSynthesis(&env),
			cmdRisk(&env),
			cmdCatalog(&env),
			cmdStudy(&env),
			cmdExport(&env),
			cmdImport(&env),
			cmdReport(&env),
			cmdSeed(&env),
		},
	}
}
