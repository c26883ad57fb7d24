package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/grxp/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds CLI flags for Slack notifications
type Slack struct {
	botToken  string `masq:"secret"`
	channelID string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token used to post notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("GRXP_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel-id",
			Usage:       "Slack channel receiving notifications",
			Category:    "Slack",
			Sources:     cli.EnvVars("GRXP_SLACK_CHANNEL_ID"),
			Destination: &x.channelID,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("bot_token_set", x.botToken != ""),
		slog.String("channel_id", x.channelID),
	)
}

// IsConfigured reports whether notifications are enabled
func (x *Slack) IsConfigured() bool {
	return x.botToken != ""
}

// Configure returns the Slack service, or nil when no token is set
func (x *Slack) Configure() (slack.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "--slack-channel-id is required with --slack-bot-token")
	}

	svc, err := slack.New(x.botToken, x.channelID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize Slack service")
	}
	return svc, nil
}
