// Package monitor orchestrates one monitoring pass: fetch the configured
// pages, extract picks, apply run-mode dedup, notify, persist.
package monitor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/dedup"
	"github.com/sells-group/pickwatch/internal/extract"
	"github.com/sells-group/pickwatch/internal/fetch"
	"github.com/sells-group/pickwatch/internal/model"
	"github.com/sells-group/pickwatch/internal/notify"
	"github.com/sells-group/pickwatch/internal/store"
)

// Monitor wires the pipeline's collaborators for a single pass. There is
// no loop in here; the external scheduler re-invokes the binary.
type Monitor struct {
	cfg        *config.Config
	engine     *extract.Engine
	fetcher    fetch.Fetcher
	store      store.Store
	notifier   notify.Notifier
	controller Controller

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Monitor.
func New(cfg *config.Config, engine *extract.Engine, fetcher fetch.Fetcher, st store.Store, notifier notify.Notifier) *Monitor {
	return &Monitor{
		cfg:      cfg,
		engine:   engine,
		fetcher:  fetcher,
		store:    st,
		notifier: notifier,
		now:      time.Now,
	}
}

// Run executes one pass in the given mode and returns a report. The only
// hard failures are all sources failing to fetch, notification delivery
// failing (state is not saved, so the next run re-emits), and the final
// state save.
func (m *Monitor) Run(ctx context.Context, mode model.RunMode) (*model.RunReport, error) {
	started := m.now().UTC()
	report := &model.RunReport{
		RunID:     uuid.New().String(),
		Mode:      mode,
		StartedAt: started,
		Sources:   len(m.cfg.Source.URLs),
	}

	state, err := m.store.Load(ctx)
	if err != nil {
		// Recoverable by contract: availability over continuity.
		zap.L().Warn("monitor: state load failed, starting fresh", zap.Error(err))
		state = model.NewState()
	}

	text, fetchFails, err := m.fetchAll(ctx)
	if err != nil {
		return report, err
	}
	report.FetchFails = fetchFails

	res := m.engine.Extract(text)
	report.Candidates = res.Candidates
	report.Extracted = len(res.Picks)

	dedup.Assign(res.Picks, started)
	emitted := m.controller.Apply(state, res.Picks, mode, started)
	report.Emitted = len(emitted)

	if len(emitted) > 0 || m.cfg.Discord.SendStatus {
		if err := m.notifier.Notify(ctx, *report, emitted); err != nil {
			// Don't persist: the next run must re-emit these picks.
			return report, eris.Wrap(err, "monitor: notify")
		}
	}

	if len(emitted) > 0 {
		if err := m.store.RecordEmitted(ctx, report.RunID, emitted); err != nil {
			zap.L().Warn("monitor: record emitted picks failed", zap.Error(err))
		}
	}

	if err := m.store.Save(ctx, state); err != nil {
		return report, eris.Wrap(err, "monitor: save state")
	}

	report.Duration = m.now().UTC().Sub(started)
	zap.L().Info("monitor: run complete",
		zap.String("run_id", report.RunID),
		zap.String("mode", string(mode)),
		zap.Int("candidates", report.Candidates),
		zap.Int("extracted", report.Extracted),
		zap.Int("emitted", report.Emitted),
		zap.Int("fetch_fails", report.FetchFails),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}

// fetchAll retrieves every configured page concurrently and joins the
// texts. One failing source degrades to the rest; all sources failing
// aborts the run.
func (m *Monitor) fetchAll(ctx context.Context) (string, int, error) {
	urls := m.cfg.Source.URLs
	if len(urls) == 0 {
		return "", 0, eris.New("monitor: no source urls configured")
	}

	texts := make([]string, len(urls))
	var mu sync.Mutex
	fails := 0

	g, gctx := errgroup.WithContext(ctx)
	limit := m.cfg.Fetch.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, pageURL := range urls {
		g.Go(func() error {
			text, err := m.fetcher.FetchText(gctx, pageURL)
			if err != nil {
				zap.L().Warn("monitor: fetch failed",
					zap.String("url", pageURL), zap.Error(err))
				mu.Lock()
				fails++
				mu.Unlock()
				return nil
			}
			texts[i] = text
			return nil
		})
	}
	_ = g.Wait()

	if fails == len(urls) {
		return "", fails, eris.New("monitor: all sources failed to fetch")
	}
	return strings.Join(texts, "\n"), fails, nil
}
