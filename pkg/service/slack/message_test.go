package slack_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/service/slack"
)

func TestTruncateToMaxBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  string
	}{
		{name: "short", input: "hover", n: 10, want: "hover"},
		{name: "exact", input: "hover", n: 5, want: "hover"},
		{name: "ascii cut", input: "autorotation", n: 4, want: "auto"},
		{name: "multi-byte not split", input: "éé", n: 3, want: "é"},
		{name: "japanese", input: "試験飛行", n: 7, want: "試験"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slack.TruncateToMaxBytes(tt.input, tt.n)
			gt.Value(t, got).Equal(tt.want)
			gt.B(t, utf8.ValidString(got)).True()
		})
	}
}

func TestEscape(t *testing.T) {
	gt.Value(t, slack.Escape("<S4 & L:C>")).Equal("&lt;S4 &amp; L:C&gt;")
}

func TestMessage_Blocks(t *testing.T) {
	msg := slack.NewMessage(strings.Repeat("t", 200)).
		Section(strings.Repeat("x", 5000)).
		Fields([2]string{"Level", "<high>"}).
		Context("ctx")

	gt.A(t, msg.Blocks).Length(4)
	gt.N(t, len(msg.Text)).Equal(200)
}
