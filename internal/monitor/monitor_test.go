package monitor

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/extract"
	"github.com/sells-group/pickwatch/internal/model"
	"github.com/sells-group/pickwatch/internal/store"
)

const pickPage = "Tonight: Wildcats @ Bulldogs. Pick Bulldogs -3.5 for 2 units, " +
	"this is my best bet of the week."

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	errs  map[string]error
	calls int
}

func (f *fakeFetcher) FetchText(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

type fakeNotifier struct {
	err     error
	reports []model.RunReport
	batches [][]model.Pick
}

func (n *fakeNotifier) Notify(_ context.Context, report model.RunReport, picks []model.Pick) error {
	if n.err != nil {
		return n.err
	}
	n.reports = append(n.reports, report)
	n.batches = append(n.batches, picks)
	return nil
}

func testConfig(urls ...string) *config.Config {
	return &config.Config{
		Source: config.SourceConfig{URLs: urls},
		Fetch:  config.FetchConfig{MaxConcurrent: 2},
	}
}

func newTestMonitor(t *testing.T, cfg *config.Config, fetcher *fakeFetcher, notifier *fakeNotifier) (*Monitor, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	st := store.NewFile(path)
	m := New(cfg, extract.NewEngine(config.ExtractConfig{}), fetcher, st, notifier)
	m.now = func() time.Time { return runTime }
	return m, path
}

// reopenMonitor simulates a fresh process reading the persisted state.
func reopenMonitor(cfg *config.Config, fetcher *fakeFetcher, notifier *fakeNotifier, path string) *Monitor {
	m := New(cfg, extract.NewEngine(config.ExtractConfig{}), fetcher, store.NewFile(path), notifier)
	m.now = func() time.Time { return runTime }
	return m
}

func TestRunIncrementalEmitsOncePerPick(t *testing.T) {
	url := "https://example.com/experts/jane-doe/"
	fetcher := &fakeFetcher{pages: map[string]string{url: pickPage}}
	notifier := &fakeNotifier{}
	m, path := newTestMonitor(t, testConfig(url), fetcher, notifier)

	report, err := m.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Emitted)
	require.Len(t, notifier.batches, 1)
	assert.Equal(t, "Wildcats @ Bulldogs", notifier.batches[0][0].Pairing)

	// A second run over the unchanged page, with a fresh Monitor reading
	// the persisted state, emits nothing and stays silent.
	m2 := reopenMonitor(testConfig(url), fetcher, notifier, path)
	report2, err := m2.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, 0, report2.Emitted)
	assert.Len(t, notifier.batches, 1)
}

func TestRunFullSweepReEmitsKnownPicks(t *testing.T) {
	url := "https://example.com/experts/jane-doe/"
	fetcher := &fakeFetcher{pages: map[string]string{url: pickPage}}
	notifier := &fakeNotifier{}
	m, _ := newTestMonitor(t, testConfig(url), fetcher, notifier)

	_, err := m.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)

	report, err := m.Run(context.Background(), model.ModeFullSweep)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Emitted)
	assert.Len(t, notifier.batches, 2)
}

func TestRunPartialFetchFailureDegrades(t *testing.T) {
	good := "https://example.com/experts/jane-doe/"
	bad := "https://example.com/experts/down/"
	fetcher := &fakeFetcher{
		pages: map[string]string{good: pickPage},
		errs:  map[string]error{bad: eris.New("boom")},
	}
	notifier := &fakeNotifier{}
	m, _ := newTestMonitor(t, testConfig(good, bad), fetcher, notifier)

	report, err := m.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FetchFails)
	assert.Equal(t, 1, report.Emitted)
}

func TestRunAllFetchFailuresAbort(t *testing.T) {
	url := "https://example.com/experts/down/"
	fetcher := &fakeFetcher{errs: map[string]error{url: eris.New("boom")}}
	notifier := &fakeNotifier{}
	m, _ := newTestMonitor(t, testConfig(url), fetcher, notifier)

	_, err := m.Run(context.Background(), model.ModeIncremental)
	require.Error(t, err)
	assert.Empty(t, notifier.batches)
}

func TestRunNoSourcesConfigured(t *testing.T) {
	m, _ := newTestMonitor(t, testConfig(), &fakeFetcher{}, &fakeNotifier{})
	_, err := m.Run(context.Background(), model.ModeIncremental)
	require.Error(t, err)
}

func TestRunNotifyFailureSkipsSave(t *testing.T) {
	url := "https://example.com/experts/jane-doe/"
	fetcher := &fakeFetcher{pages: map[string]string{url: pickPage}}
	m, path := newTestMonitor(t, testConfig(url), fetcher, &fakeNotifier{err: eris.New("webhook down")})

	_, err := m.Run(context.Background(), model.ModeIncremental)
	require.Error(t, err)

	// State was not saved, so the next run with a working notifier
	// re-emits the same pick.
	notifier := &fakeNotifier{}
	m2 := reopenMonitor(testConfig(url), fetcher, notifier, path)
	report, err := m2.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Emitted)
	require.Len(t, notifier.batches, 1)
}

func TestRunQuietWithoutStatusNotifications(t *testing.T) {
	url := "https://example.com/experts/jane-doe/"
	fetcher := &fakeFetcher{pages: map[string]string{url: "nothing relevant here"}}
	notifier := &fakeNotifier{}
	m, _ := newTestMonitor(t, testConfig(url), fetcher, notifier)

	report, err := m.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Emitted)
	assert.Empty(t, notifier.reports)
}

func TestRunStatusNotificationOnEmptyRun(t *testing.T) {
	url := "https://example.com/experts/jane-doe/"
	cfg := testConfig(url)
	cfg.Discord.SendStatus = true
	fetcher := &fakeFetcher{pages: map[string]string{url: "nothing relevant here"}}
	notifier := &fakeNotifier{}
	m, _ := newTestMonitor(t, cfg, fetcher, notifier)

	_, err := m.Run(context.Background(), model.ModeIncremental)
	require.NoError(t, err)
	require.Len(t, notifier.reports, 1)
	assert.Empty(t, notifier.batches[0])
}
