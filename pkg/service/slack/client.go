package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Service posts notifications to one Slack channel
type Service interface {
	PostMessage(ctx context.Context, msg *Message) error
}

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
}

// Option is a functional option for client configuration
type Option func(*clientOptions)

type clientOptions struct {
	apiURL string
}

// WithAPIURL points the client at another Slack API endpoint. The URL must
// end with a slash.
func WithAPIURL(url string) Option {
	return func(o *clientOptions) {
		o.apiURL = url
	}
}

// New creates a new Slack service posting to channelID with the bot token
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel is required")
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var apiOpts []slack.Option
	if o.apiURL != "" {
		apiOpts = append(apiOpts, slack.OptionAPIURL(o.apiURL))
	}

	return &client{
		api:       slack.New(token, apiOpts...),
		channelID: channelID,
	}, nil
}

// PostMessage sends the message with its fallback text and blocks
func (c *client) PostMessage(ctx context.Context, msg *Message) error {
	opts := []slack.MsgOption{
		slack.MsgOptionText(msg.Text, false),
	}
	if len(msg.Blocks) > 0 {
		opts = append(opts, slack.MsgOptionBlocks(msg.Blocks...))
	}

	if _, _, err := c.api.PostMessageContext(ctx, c.channelID, opts...); err != nil {
		return goerr.Wrap(err, "failed to post Slack message", goerr.V("channel_id", c.channelID))
	}
	return nil
}
