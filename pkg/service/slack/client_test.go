package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/grxp/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("", "C123")
		gt.Value(t, err).NotNil()
	})

	t.Run("returns error when channel is empty", func(t *testing.T) {
		_, err := slack.New("xoxb-test", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("xoxb-test", "C123")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

// fakeSlack records chat.postMessage calls
type fakeSlack struct {
	mu       sync.Mutex
	channels []string
	texts    []string
	blocks   []string
	fail     bool
}

func (f *fakeSlack) handler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "chat.postMessage") {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.channels = append(f.channels, r.FormValue("channel"))
	f.texts = append(f.texts, r.FormValue("text"))
	f.blocks = append(f.blocks, r.FormValue("blocks"))
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": "C123", "ts": "1714557600.000100"})
}

func TestClient_PostMessage(t *testing.T) {
	fake := &fakeSlack{}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	svc, err := slack.New("xoxb-test", "C123", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	msg := slack.NewMessage("Report bundle published").
		Section("*6* risk entries").
		Fields([2]string{"Study", "Sea trials"}).
		Context("20240501T100000Z")

	gt.NoError(t, svc.PostMessage(context.Background(), msg)).Required()

	gt.A(t, fake.channels).Length(1).Required()
	gt.Value(t, fake.channels[0]).Equal("C123")
	gt.Value(t, fake.texts[0]).Equal("Report bundle published")
	gt.S(t, fake.blocks[0]).Contains("Sea trials")
	gt.S(t, fake.blocks[0]).Contains(`"type":"header"`)

	t.Run("API error", func(t *testing.T) {
		fake.mu.Lock()
		fake.fail = true
		fake.mu.Unlock()

		err := svc.PostMessage(context.Background(), slack.NewMessage("x"))
		gt.Value(t, err).NotNil()
		gt.S(t, err.Error()).Contains("channel_not_found")
	})
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	channel := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if token == "" || channel == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_CHANNEL_ID is not set")
	}

	svc, err := slack.New(token, channel)
	gt.NoError(t, err).Required()

	msg := slack.NewMessage("grxp integration test").Section("posted by `go test`")
	gt.NoError(t, svc.PostMessage(context.Background(), msg))
}
