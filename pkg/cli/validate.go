package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate(env *environment) *cli.Command {
	var checkData bool

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally the stored data",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "check-data",
				Usage:       "Also load every stored entry and check its ratings",
				Destination: &checkData,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			appCfg, err := env.app.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"layout_count", len(appCfg.Layout),
				"catalog_count", len(appCfg.Catalog),
			)
			for _, entry := range appCfg.Catalog {
				logger.Info("Catalog entry validated",
					"id", entry.ID,
					"title", entry.Title,
					"level", entry.DefaultLevel(),
				)
			}

			if !checkData {
				return nil
			}

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risks, err := uc.Risk.ListRisks(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load risks")
			}
			catalog, err := uc.Catalog.ListCatalog(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to load catalog")
			}

			var issues int
			for _, risk := range risks {
				if err := risk.Validate(); err != nil {
					issues++
					logger.Warn("Invalid risk entry", "id", risk.ID, "error", err.Error())
				}
			}
			for _, entry := range catalog {
				if err := entry.Validate(); err != nil {
					issues++
					logger.Warn("Invalid catalog entry", "id", entry.ID, "error", err.Error())
				}
			}

			if issues > 0 {
				return fmt.Errorf("data check found %d issue(s)", issues)
			}

			logger.Info("Data check passed", "risk_count", len(risks), "catalog_count", len(catalog))
			return nil
		},
	}
}
