package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/cli/config"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/secmon-lab/grxp/pkg/utils/logging"
	"github.com/secmon-lab/grxp/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// environment gathers the flags shared by every command touching stored data
type environment struct {
	app     config.App
	repo    config.Repository
	archive config.Archive
	slack   config.Slack
}

func (e *environment) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, e.app.Flags()...)
	flags = append(flags, e.repo.Flags()...)
	flags = append(flags, e.archive.Flags()...)
	flags = append(flags, e.slack.Flags()...)
	return flags
}

// open builds the use cases over the configured repository. Catalog
// entries of the configuration file are upserted on every start. The
// returned function releases the repository and the archive.
func (e *environment) open(ctx context.Context) (*usecase.UseCases, func(), error) {
	appCfg, err := e.app.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load configuration")
	}

	slackSvc, err := e.slack.Configure()
	if err != nil {
		return nil, nil, err
	}

	repo, err := e.repo.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize repository")
	}

	archiver, closeArchive, err := e.archive.Configure(ctx)
	if err != nil {
		safe.Close(ctx, repo)
		return nil, nil, goerr.Wrap(err, "failed to initialize archive")
	}

	closer := func() {
		closeArchive()
		safe.Close(ctx, repo)
	}

	opts := appCfg.UseCaseOptions()
	if archiver != nil {
		opts = append(opts, usecase.WithArchiver(archiver))
	}
	if slackSvc != nil {
		opts = append(opts, usecase.WithSlackService(slackSvc))
	}
	uc := usecase.New(repo, opts...)

	for _, entry := range appCfg.Catalog {
		if err := uc.Catalog.SaveCatalogEntry(ctx, entry); err != nil {
			closer()
			return nil, nil, goerr.Wrap(err, "failed to register catalog entry", goerr.V(config.CatalogIDKey, entry.ID))
		}
	}

	logging.From(ctx).Debug("Environment ready",
		"repository", e.repo,
		"archive", e.archive,
		"slack", e.slack,
		"catalog_entries", len(appCfg.Catalog),
	)
	return uc, closer, nil
}
