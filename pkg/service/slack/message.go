package slack

import (
	"strings"
	"unicode/utf8"

	"github.com/slack-go/slack"
)

// maxSectionBytes is the Slack limit of a section text
const maxSectionBytes = 3000

// Message is a notification: fallback text plus Block Kit blocks
type Message struct {
	Text   string
	Blocks []slack.Block
}

// NewMessage starts a message with a header block. The title is also the
// fallback text shown in notifications.
func NewMessage(title string) *Message {
	return &Message{
		Text: title,
		Blocks: []slack.Block{
			slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, truncateToMaxBytes(title, 150), false, false)),
		},
	}
}

// Section appends a mrkdwn paragraph
func (m *Message) Section(text string) *Message {
	m.Blocks = append(m.Blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(text, maxSectionBytes), false, false),
		nil, nil,
	))
	return m
}

// Fields appends a section of label/value pairs shown in two columns
func (m *Message) Fields(pairs ...[2]string) *Message {
	fields := make([]*slack.TextBlockObject, 0, len(pairs))
	for _, p := range pairs {
		text := "*" + Escape(p[0]) + "*\n" + Escape(p[1])
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(text, 2000), false, false))
	}
	m.Blocks = append(m.Blocks, slack.NewSectionBlock(nil, fields, nil))
	return m
}

// Context appends a small grey line
func (m *Message) Context(text string) *Message {
	m.Blocks = append(m.Blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(text, maxSectionBytes), false, false),
	))
	return m
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape protects user text from mrkdwn control characters
func Escape(s string) string {
	return escaper.Replace(s)
}

// truncateToMaxBytes cuts s to at most n bytes without splitting a rune
func truncateToMaxBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
