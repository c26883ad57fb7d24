package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// ErrUnknownDataFormat is returned for an export or import format other
// than json and csv
var ErrUnknownDataFormat = goerr.New("unknown data format")

func dataFormat(flag, path string) (string, error) {
	f := strings.ToLower(flag)
	if f == "" {
		f = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch f {
	case formatJSON, formatCSV:
		return f, nil
	default:
		return "", goerr.Wrap(ErrUnknownDataFormat, "format must be json or csv", goerr.V("format", flag), goerr.V("path", path))
	}
}

func cmdExport(env *environment) *cli.Command {
	var format, output string
	var bundle bool

	return &cli.Command{
		Name:  "export",
		Usage: "Export risk entries as JSON or CSV, or publish a report bundle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Export format [json|csv], guessed from --output by default",
				Destination: &format,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file (\"-\" for stdout)",
				Value:       "-",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "bundle",
				Usage:       "Upload JSON, CSV, synthesis SVG and PDF report to the archive destination",
				Destination: &bundle,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if bundle {
				locations, err := uc.Report.PublishBundle(ctx)
				if err != nil {
					return err
				}
				for _, loc := range locations {
					if _, err := fmt.Fprintln(stdout(c), loc); err != nil {
						return goerr.Wrap(err, "failed to write location")
					}
				}
				return nil
			}

			if format == "" && (output == "-" || output == "") {
				format = formatJSON
			}
			f, err := dataFormat(format, output)
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(ctx, c, output)
			if err != nil {
				return err
			}
			defer closeOut()

			if f == formatCSV {
				return uc.Data.ExportCSV(ctx, w)
			}
			return uc.Data.ExportJSON(ctx, w)
		},
	}
}

func cmdImport(env *environment) *cli.Command {
	var format string

	return &cli.Command{
		Name:      "import",
		Usage:     "Import risk entries from a JSON or CSV export",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Import format [json|csv], guessed from the extension by default",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path := c.Args().First()
			if path == "" {
				return goerr.New("import file argument is required")
			}
			f, err := dataFormat(format, path)
			if err != nil {
				return err
			}

			// #nosec G304 - path is provided by CLI argument
			file, err := os.Open(path)
			if err != nil {
				return goerr.Wrap(err, "failed to open import file", goerr.V("path", path))
			}
			defer safe.Close(ctx, file)

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			var n int
			if f == formatCSV {
				n, err = uc.Data.ImportCSV(ctx, file)
			} else {
				n, err = uc.Data.ImportJSON(ctx, file)
			}
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(stdout(c), "imported %d risk entries\n", n)
			return err
		},
	}
}

func cmdReport(env *environment) *cli.Command {
	var output string

	return &cli.Command{
		Name:  "report",
		Usage: "Write the PDF report of the study",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output file (\"-\" for stdout)",
				Value:       "report.pdf",
				Destination: &output,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			w, closeOut, err := createOutput(ctx, c, output)
			if err != nil {
				return err
			}
			defer closeOut()

			return uc.Report.PDF(ctx, w)
		},
	}
}

func cmdSeed(env *environment) *cli.Command {
	var replace bool

	return &cli.Command{
		Name:  "seed",
		Usage: "Store the demo risk entries",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "replace",
				Usage:       "Replace existing risk entries",
				Destination: &replace,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risks, err := uc.Data.Seed(ctx, replace)
			if err != nil {
				return err
			}
			return writeRiskTable(stdout(c), risks)
		},
	}
}
