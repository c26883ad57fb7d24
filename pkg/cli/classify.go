package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model/matrix"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
	"github.com/urfave/cli/v3"
)

func sizeFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "size",
		Usage:       "Matrix size [sm|md|lg]",
		Value:       string(matrix.SizeMedium),
		Destination: dst,
	}
}

func cmdClassify() *cli.Command {
	var severity, likelihood string

	return &cli.Command{
		Name:  "classify",
		Usage: "Print the risk level of a severity and likelihood",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "severity",
				Aliases:     []string{"s"},
				Usage:       "Severity code 1-4 or name",
				Required:    true,
				Destination: &severity,
			},
			&cli.StringFlag{
				Name:        "likelihood",
				Aliases:     []string{"L"},
				Usage:       "Likelihood letter A-D or name",
				Required:    true,
				Destination: &likelihood,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			sev, err := types.ParseSeverity(severity)
			if err != nil {
				return err
			}
			lik, err := types.ParseLikelihood(likelihood)
			if err != nil {
				return err
			}

			level := types.Classify(sev, lik)
			if _, err := fmt.Fprintf(stdout(c), "%s %s x %s\n", render.LevelText(level), sev.Label(), lik.Label()); err != nil {
				return goerr.Wrap(err, "failed to write level")
			}
			return nil
		},
	}
}

func cmdMatrix(env *environment) *cli.Command {
	var svgPath, size string

	return &cli.Command{
		Name:      "matrix",
		Usage:     "Draw the matrix of one risk entry",
		ArgsUsage: "<risk-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "svg",
				Usage:       "Write an SVG image to the path instead of printing the grid (\"-\" for stdout)",
				Destination: &svgPath,
			},
			sizeFlag(&size),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := riskIDArg(c)
			if err != nil {
				return err
			}
			sz, err := matrix.ParseSize(size)
			if err != nil {
				return err
			}

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if svgPath != "" {
				w, closeOut, err := createOutput(ctx, c, svgPath)
				if err != nil {
					return err
				}
				defer closeOut()
				return uc.Report.MatrixSVG(ctx, w, id, sz)
			}

			risk, err := uc.Risk.GetRisk(ctx, id)
			if err != nil {
				return err
			}
			view, err := uc.Report.MatrixView(ctx, id)
			if err != nil {
				return err
			}

			w := stdout(c)
			if _, err := fmt.Fprintf(w, "%s\n%s -> %s\n\n", view.Title,
				render.LevelText(risk.InitialRisk.Level()),
				render.LevelText(risk.ResidualRisk.Level()),
			); err != nil {
				return goerr.Wrap(err, "failed to write matrix header")
			}
			return render.MatrixText(w, view)
		},
	}
}

func cmdSynthesis(env *environment) *cli.Command {
	var svgPath, size, cell string

	return &cli.Command{
		Name:  "synthesis",
		Usage: "Summarize residual ratings of the whole study",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "cell",
				Usage:       "List the entries of one residual cell, e.g. 4C",
				Destination: &cell,
			},
			&cli.StringFlag{
				Name:        "svg",
				Usage:       "Write an SVG image to the path instead of printing the summary (\"-\" for stdout)",
				Destination: &svgPath,
			},
			sizeFlag(&size),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			sz, err := matrix.ParseSize(size)
			if err != nil {
				return err
			}

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if cell != "" {
				target, err := matrix.ParseCell(cell)
				if err != nil {
					return err
				}
				risks, err := uc.Synthesis.RisksInCell(ctx, target)
				if err != nil {
					return err
				}
				return writeRiskTable(stdout(c), risks)
			}

			if svgPath != "" {
				w, closeOut, err := createOutput(ctx, c, svgPath)
				if err != nil {
					return err
				}
				defer closeOut()
				return uc.Report.SynthesisSVG(ctx, w, sz)
			}

			s, err := uc.Synthesis.Build(ctx)
			if err != nil {
				return err
			}
			w := stdout(c)
			if err := render.SynthesisText(w, s.Counts()); err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return goerr.Wrap(err, "failed to write synthesis")
			}
			return s.WriteText(w)
		},
	}
}
