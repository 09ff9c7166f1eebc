package report_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/shardbotgo/internal/command"
	"github.com/vk/shardbotgo/internal/report"
	"github.com/vk/shardbotgo/internal/testutil"
)

type capturedPayload struct {
	Embeds []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Color       int    `json:"color"`
	} `json:"embeds"`
}

func newContext(conn *testutil.FakeConn) *command.Context {
	cmd := &command.Command{Name: "weather", Run: func(context.Context, *command.Context, []string) error { return nil }}
	return command.NewContext("42", "tester", "chan-1", cmd, conn)
}

func TestReportDeliversIncidentAndApology(t *testing.T) {
	var mu sync.Mutex
	var payloads []capturedPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p capturedPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	conn := testutil.NewFakeConn()
	r := report.New(server.URL, "https://support.example", 3)
	defer func() { _ = r.Close() }()

	r.Report(context.Background(), newContext(conn), errors.New("api quota exceeded"))
	r.Wait()

	// Operator side: one structured incident record.
	mu.Lock()
	require.Len(t, payloads, 1)
	embed := payloads[0].Embeds[0]
	mu.Unlock()
	assert.Equal(t, "Command: weather, Instance: 3", embed.Title)
	assert.Contains(t, embed.Description, "api quota exceeded")
	assert.Contains(t, embed.Description, "`tester`")
	assert.Contains(t, embed.Description, "`42`")
	assert.Equal(t, 16740159, embed.Color)

	// User side: one apology embed with the support link.
	embeds := conn.Embeds()
	require.Len(t, embeds, 1)
	assert.Equal(t, "Error", embeds[0].Embed.Title)
	assert.Contains(t, embeds[0].Embed.Description, "weather")
	assert.Contains(t, embeds[0].Embed.Description, "https://support.example")
	assert.Equal(t, 0xDEADBF, embeds[0].Embed.Color)
}

func TestWebhookFailureDoesNotSuppressApology(t *testing.T) {
	// Nothing listens here; the POST fails outright.
	conn := testutil.NewFakeConn()
	r := report.New("http://127.0.0.1:1/webhook", "https://support.example", 0)
	defer func() { _ = r.Close() }()

	r.Report(context.Background(), newContext(conn), errors.New("boom"))
	r.Wait()

	assert.Len(t, conn.Embeds(), 1)
}

func TestApologyFailureDoesNotSuppressWebhook(t *testing.T) {
	var hits int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
	}))
	defer server.Close()

	conn := testutil.NewFakeConn()
	conn.SendErr = errors.New("channel gone")
	r := report.New(server.URL, "https://support.example", 0)
	defer func() { _ = r.Close() }()

	r.Report(context.Background(), newContext(conn), errors.New("boom"))
	r.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, hits)
}

func TestEmptyWebhookURLSkipsOperatorSink(t *testing.T) {
	conn := testutil.NewFakeConn()
	r := report.New("", "https://support.example", 0)
	defer func() { _ = r.Close() }()

	r.Report(context.Background(), newContext(conn), errors.New("boom"))
	r.Wait()

	assert.Len(t, conn.Embeds(), 1, "the user reply is always attempted")
}
