package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/render"
	"github.com/urfave/cli/v3"
)

func riskIDArg(c *cli.Command) (types.RiskID, error) {
	id := types.RiskID(c.Args().First())
	if err := id.Validate(); err != nil {
		return "", goerr.Wrap(err, "risk ID argument is required")
	}
	return id, nil
}

// riskFields maps descriptive flags onto a risk entry
type riskFields struct {
	studyNumber     string
	experimentation string
	title           string
	aircraft        string
	dreadedEvent    string
	mitigation      string
	synthesis       string
}

func (x *riskFields) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "study-number", Usage: "Study number", Destination: &x.studyNumber},
		&cli.StringFlag{Name: "experimentation", Usage: "Experimentation the activity belongs to", Destination: &x.experimentation},
		&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Activity title", Destination: &x.title},
		&cli.StringFlag{Name: "aircraft", Usage: "Aircraft", Destination: &x.aircraft},
		&cli.StringFlag{Name: "dreaded-event", Usage: "Dreaded event", Destination: &x.dreadedEvent},
		&cli.StringFlag{Name: "mitigation", Usage: "Mitigation measures", Destination: &x.mitigation},
		&cli.StringFlag{Name: "synthesis", Usage: "Synthesis of the entry", Destination: &x.synthesis},
	}
}

// apply copies the flags given on the command line onto risk
func (x *riskFields) apply(c *cli.Command, risk *model.RiskEntry) {
	for name, pair := range map[string]struct {
		dst *string
		src string
	}{
		"study-number":    {&risk.StudyNumber, x.studyNumber},
		"experimentation": {&risk.Experimentation, x.experimentation},
		"title":           {&risk.ActivityTitle, x.title},
		"aircraft":        {&risk.Aircraft, x.aircraft},
		"dreaded-event":   {&risk.DreadedEvent, x.dreadedEvent},
		"mitigation":      {&risk.MitigationMeasures, x.mitigation},
		"synthesis":       {&risk.Synthesis, x.synthesis},
	} {
		if c.IsSet(name) {
			*pair.dst = pair.src
		}
	}
}

func levelCell(a model.Assessment) string {
	return fmt.Sprintf("%s %d%s", render.LevelText(a.Level()), int(a.Severity), a.Likelihood)
}

func writeRiskTable(w io.Writer, risks []*model.RiskEntry) error {
	rows := make([][]string, 0, len(risks))
	for _, r := range risks {
		rows = append(rows, []string{
			r.ID.String(),
			r.Title(),
			r.Experimentation,
			levelCell(r.InitialRisk),
			levelCell(r.ResidualRisk),
			r.Trend().String(),
		})
	}
	return writeTable(w, []string{"ID", "Activity", "Experimentation", "Initial", "Residual", "Trend"}, rows)
}

func writeAssessment(w io.Writer, phase types.Phase, a model.Assessment) error {
	_, err := fmt.Fprintf(w, "%-9s %s  %s / %s / %s / %s\n",
		phase.String()+":",
		render.LevelText(a.Level()),
		a.Severity.Label(),
		a.Likelihood.Label(),
		a.Exposure.Label(),
		a.Detectability.Label(),
	)
	return err
}

func writeRisk(w io.Writer, r *model.RiskEntry) error {
	fields := [][2]string{
		{"ID", r.ID.String()},
		{"Study number", r.StudyNumber},
		{"Experimentation", r.Experimentation},
		{"Activity", r.ActivityTitle},
		{"Aircraft", r.Aircraft},
		{"Dreaded event", r.DreadedEvent},
		{"Mitigation", r.MitigationMeasures},
		{"Synthesis", r.Synthesis},
		{"Updated", r.UpdatedAt.Format("2006-01-02 15:04")},
	}
	for _, f := range fields {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", f[0]+":", f[1]); err != nil {
			return goerr.Wrap(err, "failed to write risk")
		}
	}
	if err := writeAssessment(w, types.PhaseInitial, r.InitialRisk); err != nil {
		return goerr.Wrap(err, "failed to write risk")
	}
	if err := writeAssessment(w, types.PhaseResidual, r.ResidualRisk); err != nil {
		return goerr.Wrap(err, "failed to write risk")
	}
	return nil
}

func cmdRisk(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "risk",
		Aliases: []string{"r"},
		Usage:   "Manage risk entries",
		Commands: []*cli.Command{
			cmdRiskList(env),
			cmdRiskShow(env),
			cmdRiskNew(env),
			cmdRiskUpdate(env),
			cmdRiskRate(env),
			cmdRiskDelete(env),
		},
	}
}

func cmdRiskList(env *environment) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List risk entries, worst residual rating first",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risks, err := uc.Risk.ListRisks(ctx)
			if err != nil {
				return err
			}
			return writeRiskTable(stdout(c), risks)
		},
	}
}

func cmdRiskShow(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one risk entry",
		ArgsUsage: "<risk-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := riskIDArg(c)
			if err != nil {
				return err
			}
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risk, err := uc.Risk.GetRisk(ctx, id)
			if err != nil {
				return err
			}
			return writeRisk(stdout(c), risk)
		},
	}
}

func cmdRiskNew(env *environment) *cli.Command {
	var fields riskFields
	var catalogID string

	flags := fields.Flags()
	flags = append(flags, &cli.StringFlag{
		Name:        "catalog",
		Usage:       "Catalog entry to start from",
		Destination: &catalogID,
	})

	return &cli.Command{
		Name:  "new",
		Usage: "Create a risk entry, blank or from a catalog template",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			var risk *model.RiskEntry
			if catalogID != "" {
				risk, err = uc.Risk.CreateFromCatalog(ctx, types.CatalogEntryID(catalogID))
			} else {
				risk, err = uc.Risk.NewRisk(ctx)
			}
			if err != nil {
				return err
			}

			fields.apply(c, risk)
			saved, err := uc.Risk.SaveRisk(ctx, risk)
			if err != nil {
				return err
			}
			return writeRisk(stdout(c), saved)
		},
	}
}

func cmdRiskUpdate(env *environment) *cli.Command {
	var fields riskFields

	return &cli.Command{
		Name:      "update",
		Usage:     "Update the descriptive fields of a risk entry",
		ArgsUsage: "<risk-id>",
		Flags:     fields.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := riskIDArg(c)
			if err != nil {
				return err
			}
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risk, err := uc.Risk.GetRisk(ctx, id)
			if err != nil {
				return err
			}
			fields.apply(c, risk)
			saved, err := uc.Risk.SaveRisk(ctx, risk)
			if err != nil {
				return err
			}
			return writeRisk(stdout(c), saved)
		},
	}
}

func cmdRiskRate(env *environment) *cli.Command {
	var phase, severity, likelihood, exposure, detectability string

	return &cli.Command{
		Name:      "rate",
		Usage:     "Rate one phase of a risk entry. Omitted axes keep their value.",
		ArgsUsage: "<risk-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "phase", Aliases: []string{"p"}, Usage: "initial or residual", Value: string(types.PhaseResidual), Destination: &phase},
			&cli.StringFlag{Name: "severity", Aliases: []string{"s"}, Usage: "Severity code 1-4 or name", Destination: &severity},
			&cli.StringFlag{Name: "likelihood", Aliases: []string{"L"}, Usage: "Likelihood letter A-D or name", Destination: &likelihood},
			&cli.StringFlag{Name: "exposure", Aliases: []string{"e"}, Usage: "Exposure code 1-4 or name", Destination: &exposure},
			&cli.StringFlag{Name: "detectability", Aliases: []string{"d"}, Usage: "Detectability code 1-4 or name", Destination: &detectability},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := riskIDArg(c)
			if err != nil {
				return err
			}
			p, err := types.ParsePhase(phase)
			if err != nil {
				return err
			}

			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			risk, err := uc.Risk.GetRisk(ctx, id)
			if err != nil {
				return err
			}
			current, err := risk.Assessment(p)
			if err != nil {
				return err
			}
			a := *current

			if c.IsSet("severity") {
				if a.Severity, err = types.ParseSeverity(severity); err != nil {
					return err
				}
			}
			if c.IsSet("likelihood") {
				if a.Likelihood, err = types.ParseLikelihood(likelihood); err != nil {
					return err
				}
			}
			if c.IsSet("exposure") {
				if a.Exposure, err = types.ParseExposure(exposure); err != nil {
					return err
				}
			}
			if c.IsSet("detectability") {
				if a.Detectability, err = types.ParseDetectability(detectability); err != nil {
					return err
				}
			}

			rated, err := uc.Risk.Rate(ctx, id, p, a.Severity, a.Likelihood, a.Exposure, a.Detectability)
			if err != nil {
				return err
			}
			return writeRisk(stdout(c), rated)
		},
	}
}

func cmdRiskDelete(env *environment) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a risk entry",
		ArgsUsage: "<risk-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := riskIDArg(c)
			if err != nil {
				return err
			}
			uc, closer, err := env.open(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if err := uc.Risk.DeleteRisk(ctx, id); err != nil {
				return err
			}
			_, err = fmt.Fprintf(stdout(c), "deleted %s\n", id)
			return err
		},
	}
}
