package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
	"github.com/secmon-lab/grxp/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdCatalog(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"c"},
		Usage:   "Manage hazard templates",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List catalog entries",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := env.open(ctx)
					if err != nil {
						return err
					}
					defer closer()

					entries, err := uc.Catalog.ListCatalog(ctx)
					if err != nil {
						return err
					}

					rows := make([][]string, 0, len(entries))
					for _, e := range entries {
						rows = append(rows, []string{
							e.ID.String(),
							e.Title,
							e.Category,
							fmt.Sprintf("%s %d%s", render.LevelText(e.DefaultLevel()), int(e.DefaultSeverity), e.DefaultLikelihood),
						})
					}
					return writeTable(stdout(c), []string{"ID", "Title", "Category", "Default"}, rows)
				},
			},
			cmdCatalogImport(env),
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a catalog entry",
				ArgsUsage: "<entry-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					id := types.CatalogEntryID(c.Args().First())
					if err := id.Validate(); err != nil {
						return goerr.Wrap(err, "catalog entry ID argument is required")
					}

					uc, closer, err := env.open(ctx)
					if err != nil {
						return err
					}
					defer closer()

					if err := uc.Catalog.DeleteCatalogEntry(ctx, id); err != nil {
						return err
					}
					_, err = fmt.Fprintf(stdout(c), "deleted %s\n", id)
					return err
				},
			},
		},
	}
}

func cmdCatalogImport(env *environment) *cli.Command {
	var format string

	return &cli.Command{
		Name:      "import",
		Usage:     "Insert or replace catalog entries from a TOML or YAML file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Usage:       "File format [toml|yaml], guessed from the extension by default",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("catalog file argument is required")
			}

			f := usecase.CatalogFormat(format)
			if format == "" {
				var err error
				if f, err = usecase.CatalogFormatFromPath(path); err != nil {
					return err
				}
			}

			// #nosec G304 - path is provided by CLI argument
			data, err := os.ReadFile(path)
			if err != nil {
				return goerr.Wrap(err, "failed to read catalog file", goerr.V("path", path))
			}

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			n, err := uc.Catalog.ImportCatalog(ctx, data, f)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout(c), "imported %d catalog entries\n", n)
			return err
		},
	}
}
