package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/cli/config"
	"github.com/secmon-lab/grxp/pkg/repository/firestore"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdMigrate(env *environment) *cli.Command {
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			projectID := env.repo.ProjectID()
			if projectID == "" {
				return goerr.Wrap(config.ErrInvalidConfig, "firestore-project-id is required for migration")
			}

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", env.repo.DatabaseID(),
				"collectionPrefix", env.repo.CollectionPrefix(),
				"dryRun", dryRun)

			indexConfig := getIndexConfig(env.repo.CollectionPrefix())

			client, err := fireconf.New(ctx, projectID, env.repo.DatabaseID(), indexConfig,
				fireconf.WithLogger(logger),
				fireconf.WithDryRun(dryRun),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if !dryRun {
				logger.Info("Applying migrations")
				if err := client.Migrate(ctx); err != nil {
					return goerr.Wrap(err, "failed to apply migrations")
				}
				logger.Info("Migrations applied successfully")
				return nil
			}

			logger.Info("Dry run mode - previewing changes")
			names := make([]string, 0, len(indexConfig.Collections))
			for _, col := range indexConfig.Collections {
				names = append(names, col.Name)
			}
			current, err := client.Import(ctx, names...)
			if err != nil {
				return goerr.Wrap(err, "failed to read current indexes")
			}
			diff, err := client.DiffConfigs(current)
			if err != nil {
				return goerr.Wrap(err, "failed to compare indexes")
			}

			if len(diff.Collections) == 0 {
				logger.Info("No changes required")
				return nil
			}

			for _, col := range diff.Collections {
				logger.Info("Migration step",
					"collection", col.Name,
					"action", col.Action,
					"indexesToAdd", len(col.IndexesToAdd),
					"indexesToDelete", len(col.IndexesToDelete))
			}
			return nil
		},
	}
}

// getIndexConfig returns the Firestore index configuration. Risks and
// catalog entries are both listed by insertion sequence.
func getIndexConfig(prefix string) *fireconf.Config {
	seqIndex := fireconf.Index{
		Fields: []fireconf.IndexField{
			{Path: "seq", Order: fireconf.OrderAscending},
			{Path: "__name__", Order: fireconf.OrderAscending},
		},
	}

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name:    firestore.CollectionName(prefix, firestore.RiskCollection),
				Indexes: []fireconf.Index{seqIndex},
			},
			{
				Name:    firestore.CollectionName(prefix, firestore.CatalogCollection),
				Indexes: []fireconf.Index{seqIndex},
			},
		},
	}
}
