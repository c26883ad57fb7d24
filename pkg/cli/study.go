package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// ErrNotConfirmed is returned by destructive commands run without --yes
var ErrNotConfirmed = goerr.New("destructive operation requires --yes")

func writeStudy(w io.Writer, s *model.StudyContext) error {
	_, err := fmt.Fprintf(w, "Study:     %s\nAircraft:  %s\nDate:      %s\nSynthesis: %s\n",
		s.StudyName, s.Aircraft, s.Date, s.GlobalSynthesis)
	return err
}

func cmdStudy(env *environment) *cli.Command {
	var name, aircraft, date, synthesis string
	var yes bool

	return &cli.Command{
		Name:  "study",
		Usage: "Show or edit the study context",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the study context",
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := env.open(ctx)
					if err != nil {
						return err
					}
					defer closer()

					study, err := uc.Study.GetStudy(ctx)
					if err != nil {
						return err
					}
					return writeStudy(stdout(c), study)
				},
			},
			{
				Name:  "set",
				Usage: "Update fields of the study context",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Study name", Destination: &name},
					&cli.StringFlag{Name: "aircraft", Usage: "Aircraft", Destination: &aircraft},
					&cli.StringFlag{Name: "date", Usage: "Study date (YYYY-MM-DD)", Destination: &date},
					&cli.StringFlag{Name: "synthesis", Usage: "Global synthesis", Destination: &synthesis},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					uc, closer, err := env.open(ctx)
					if err != nil {
						return err
					}
					defer closer()

					study, err := uc.Study.GetStudy(ctx)
					if err != nil {
						return err
					}
					if c.IsSet("name") {
						study.StudyName = name
					}
					if c.IsSet("aircraft") {
						study.Aircraft = aircraft
					}
					if c.IsSet("date") {
						study.Date = date
					}
					if c.IsSet("synthesis") {
						study.GlobalSynthesis = synthesis
					}

					if err := uc.Study.SaveStudy(ctx, study); err != nil {
						return err
					}
					return writeStudy(stdout(c), study)
				},
			},
			{
				Name:  "new",
				Usage: "Start a new study: delete every risk entry and reset the context",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm deletion of every risk entry", Destination: &yes},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if !yes {
						return ErrNotConfirmed
					}

					uc, closer, err := env.open(ctx)
					if err != nil {
						return err
					}
					defer closer()

					study, err := uc.Study.StartNewStudy(ctx)
					if err != nil {
						return err
					}
					return writeStudy(stdout(c), study)
				},
			},
		},
	}
}
