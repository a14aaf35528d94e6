package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/model"
	"github.com/sells-group/pickwatch/internal/resilience"
)

func testReport() model.RunReport {
	return model.RunReport{
		RunID:     "run-123",
		Mode:      model.ModeIncremental,
		StartedAt: time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
	}
}

func testPick() model.Pick {
	return model.Pick{
		Pairing:   "Wildcats @ Bulldogs",
		Selection: "Bulldogs -3.5",
		Price:     model.PriceUnknown,
		Stake:     "2 units",
		Tier:      model.TierBest,
		Category:  "college",
		Status:    model.StatusPending,
	}
}

func newTestDiscord(url string) *Discord {
	d := NewDiscord(config.DiscordConfig{WebhookURL: url, Username: "Pick Alerts"})
	d.retry = resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond}
	return d
}

func capturePayload(t *testing.T, r *http.Request) webhookPayload {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var payload webhookPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	return payload
}

func TestNotifyAlertEmbed(t *testing.T) {
	var payload webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = capturePayload(t, r)
	}))
	defer srv.Close()

	d := newTestDiscord(srv.URL)
	err := d.Notify(context.Background(), testReport(), []model.Pick{testPick()})
	require.NoError(t, err)

	assert.Equal(t, "Pick Alerts", payload.Username)
	require.Len(t, payload.Embeds, 1)

	e := payload.Embeds[0]
	assert.Equal(t, "1 New Pick(s) Detected", e.Title)
	assert.Equal(t, colorAlert, e.Color)
	assert.Contains(t, e.Footer.Text, "run-123")
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "Wildcats @ Bulldogs", e.Fields[0].Name)
	assert.Contains(t, e.Fields[0].Value, "Bulldogs -3.5")
	assert.Contains(t, e.Fields[0].Value, "2 units")
	assert.Contains(t, e.Fields[0].Value, "BEST")
	// The unknown-price sentinel never reaches the embed.
	assert.NotContains(t, e.Fields[0].Value, model.PriceUnknown)
}

func TestNotifyStatusEmbedWhenEmpty(t *testing.T) {
	var payload webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload = capturePayload(t, r)
	}))
	defer srv.Close()

	d := newTestDiscord(srv.URL)
	err := d.Notify(context.Background(), testReport(), nil)
	require.NoError(t, err)

	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "Monitor Status", payload.Embeds[0].Title)
	assert.Equal(t, colorStatus, payload.Embeds[0].Color)
	assert.Empty(t, payload.Embeds[0].Fields)
}

func TestNotifyNoWebhookConfigured(t *testing.T) {
	d := NewDiscord(config.DiscordConfig{})
	err := d.Notify(context.Background(), testReport(), []model.Pick{testPick()})
	assert.NoError(t, err)
}

func TestNotifyRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
	}))
	defer srv.Close()

	d := newTestDiscord(srv.URL)
	err := d.Notify(context.Background(), testReport(), []model.Pick{testPick()})
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNotifyPermanentFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	d := newTestDiscord(srv.URL)
	err := d.Notify(context.Background(), testReport(), []model.Pick{testPick()})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFormatPick(t *testing.T) {
	p := testPick()
	p.Price = "-110"
	got := formatPick(p)
	assert.Contains(t, got, "**Bulldogs -3.5**")
	assert.Contains(t, got, "(-110)")
	assert.Contains(t, got, "college")

	// No tier, unknown category: both lines are omitted.
	bare := model.Pick{
		Selection: "Celtics", Price: model.PriceUnknown,
		Stake: "1 unit", Tier: model.TierNone, Category: model.CategoryUnknown,
	}
	got = formatPick(bare)
	assert.Equal(t, "**Celtics** — 1 unit", got)
}

func TestNoopNotifier(t *testing.T) {
	var n Noop
	assert.NoError(t, n.Notify(context.Background(), testReport(), []model.Pick{testPick()}))
}
