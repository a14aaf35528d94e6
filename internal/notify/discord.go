package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/model"
	"github.com/sells-group/pickwatch/internal/resilience"
)

// Embed colors.
const (
	colorAlert  = 0xFF0000
	colorStatus = 0x00FF00
)

// Discord posts pick alerts to a Discord webhook as embeds.
type Discord struct {
	cfg    config.DiscordConfig
	client *http.Client
	retry  resilience.RetryConfig
}

// NewDiscord creates a Discord notifier.
func NewDiscord(cfg config.DiscordConfig) *Discord {
	return &Discord{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		retry:  resilience.DefaultRetryConfig(),
	}
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []embedField `json:"fields,omitempty"`
	Footer      struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type webhookPayload struct {
	Username string  `json:"username"`
	Embeds   []embed `json:"embeds"`
}

// Notify posts one embed per run: a field per pick, or a green status
// embed when the pick list is empty.
func (d *Discord) Notify(ctx context.Context, report model.RunReport, picks []model.Pick) error {
	if d.cfg.WebhookURL == "" {
		return nil
	}

	var e embed
	if len(picks) == 0 {
		e = embed{
			Title:       "Monitor Status",
			Description: "No new picks detected.",
			Color:       colorStatus,
		}
	} else {
		e = embed{
			Title:       fmt.Sprintf("%d New Pick(s) Detected", len(picks)),
			Description: describeRun(report),
			Color:       colorAlert,
		}
		for _, p := range picks {
			e.Fields = append(e.Fields, embedField{
				Name:  p.Pairing,
				Value: formatPick(p),
			})
		}
	}
	e.Footer.Text = fmt.Sprintf("pickwatch • run %s", report.RunID)

	payload := webhookPayload{
		Username: d.cfg.Username,
		Embeds:   []embed{e},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "notify: marshal payload")
	}

	err = resilience.Do(ctx, d.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.WebhookURL,
			bytes.NewReader(body))
		if err != nil {
			return eris.Wrap(err, "notify: create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			return eris.Wrap(err, "notify: post webhook")
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= 400 {
			err := eris.Errorf("notify: webhook status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(err, resp.StatusCode)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	zap.L().Info("notify: webhook delivered",
		zap.String("run_id", report.RunID),
		zap.Int("picks", len(picks)),
	)
	return nil
}

// formatPick renders one pick as an embed field value.
func formatPick(p model.Pick) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", p.Selection)
	if p.Price != model.PriceUnknown {
		fmt.Fprintf(&b, " (%s)", p.Price)
	}
	fmt.Fprintf(&b, " — %s", p.Stake)
	if p.Tier != model.TierNone {
		fmt.Fprintf(&b, " — %s", strings.ToUpper(string(p.Tier)))
	}
	if p.Category != model.CategoryUnknown {
		fmt.Fprintf(&b, "\n%s", p.Category)
	}
	return b.String()
}

func describeRun(report model.RunReport) string {
	mode := "incremental check"
	if report.Mode == model.ModeFullSweep {
		mode = "full sweep"
	}
	return fmt.Sprintf("Detected by %s at %s.",
		mode, report.StartedAt.UTC().Format("3:04 PM MST"))
}
