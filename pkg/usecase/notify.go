package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/secmon-lab/grxp/pkg/domain/model"
	"github.com/secmon-lab/grxp/pkg/domain/types"
	"github.com/secmon-lab/grxp/pkg/service/slack"
	"github.com/secmon-lab/grxp/pkg/utils/errutil"
)

// notifier posts study events to Slack. Failures are reported and never
// fail the operation that triggered them.
type notifier struct {
	slack slack.Service
}

func (n *notifier) post(ctx context.Context, msg *slack.Message) {
	if err := n.slack.PostMessage(ctx, msg); err != nil {
		_ = errutil.Handle(ctx, err, "failed to send Slack notification")
	}
}

func studyTitle(study *model.StudyContext) string {
	if study.Aircraft == "" {
		return study.StudyName
	}
	return study.StudyName + " (" + study.Aircraft + ")"
}

func (n *notifier) residualUnacceptable(ctx context.Context, risk *model.RiskEntry) {
	a := risk.ResidualRisk
	msg := slack.NewMessage("Unacceptable residual risk: "+risk.Title()).
		Fields(
			[2]string{"Experimentation", risk.Experimentation},
			[2]string{"Aircraft", risk.Aircraft},
			[2]string{"Initial", fmt.Sprintf("%s (%d%s)", risk.InitialRisk.Level().Label(), int(risk.InitialRisk.Severity), risk.InitialRisk.Likelihood)},
			[2]string{"Residual", fmt.Sprintf("%s (%d%s)", a.Level().Label(), int(a.Severity), a.Likelihood)},
		)
	if risk.DreadedEvent != "" {
		msg.Section("*Dreaded event*\n" + slack.Escape(risk.DreadedEvent))
	}
	msg.Context("risk " + risk.ID.String())
	n.post(ctx, msg)
}

func (n *notifier) bundlePublished(ctx context.Context, s *Synthesis, dir string, locations []string) {
	var levels []string
	for _, lc := range s.Levels {
		levels = append(levels, fmt.Sprintf("%s: %d -> %d", lc.Level.Label(), lc.Initial, lc.Residual))
	}

	msg := slack.NewMessage("Report bundle published: " + studyTitle(s.Study)).
		Section(fmt.Sprintf("*%d* risk entries, %d improved, %d regressed",
			s.Total, s.Trends[types.TrendImproved], s.Trends[types.TrendRegressed])).
		Section("```\n" + strings.Join(levels, "\n") + "\n```").
		Section(slack.Escape(strings.Join(locations, "\n"))).
		Context(dir)
	n.post(ctx, msg)
}
