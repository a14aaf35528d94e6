package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pickwatch/internal/dedup"
	"github.com/sells-group/pickwatch/internal/model"
)

var runTime = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func makePicks(n int) []model.Pick {
	picks := make([]model.Pick, n)
	for i := range picks {
		picks[i] = model.Pick{
			Pairing:   fmt.Sprintf("Team%d @ Team%dB", i, i),
			Selection: fmt.Sprintf("Team%dB -3.5", i),
			Status:    model.StatusPending,
		}
	}
	dedup.Assign(picks, runTime)
	return picks
}

func TestApplyIncrementalEmitsOnlyNovel(t *testing.T) {
	var c Controller
	state := model.NewState()
	picks := makePicks(3)
	state.Remember(picks[0].Identity)

	emitted := c.Apply(state, picks, model.ModeIncremental, runTime)

	require.Len(t, emitted, 2)
	assert.Equal(t, picks[1].Identity, emitted[0].Identity)
	assert.Equal(t, picks[2].Identity, emitted[1].Identity)
	assert.Equal(t, 2, state.TotalEmitted)
	assert.Equal(t, runTime, state.LastCheckAt)
	assert.True(t, state.LastFullSweepAt.IsZero())
}

func TestApplyIncrementalSecondRunEmitsNothing(t *testing.T) {
	var c Controller
	state := model.NewState()
	picks := makePicks(3)

	first := c.Apply(state, picks, model.ModeIncremental, runTime)
	require.Len(t, first, 3)

	second := c.Apply(state, picks, model.ModeIncremental, runTime.Add(time.Hour))
	assert.Empty(t, second)
	assert.Equal(t, 3, state.TotalEmitted)
}

func TestApplyFullSweepIgnoresHistory(t *testing.T) {
	var c Controller
	state := model.NewState()
	picks := makePicks(3)

	// Everything already known from earlier incremental runs.
	for _, p := range picks {
		state.Remember(p.Identity)
	}

	emitted := c.Apply(state, picks, model.ModeFullSweep, runTime)
	assert.Len(t, emitted, 3)
	assert.Equal(t, runTime, state.LastFullSweepAt)
	assert.Equal(t, runTime, state.LastCheckAt)
}

func TestApplyFullSweepSkipsSettledPicks(t *testing.T) {
	var c Controller
	state := model.NewState()
	picks := makePicks(3)
	picks[1].Status = model.StatusWon

	emitted := c.Apply(state, picks, model.ModeFullSweep, runTime)
	require.Len(t, emitted, 2)
	assert.Equal(t, picks[0].Identity, emitted[0].Identity)
	assert.Equal(t, picks[2].Identity, emitted[1].Identity)
}

func TestApplyFullSweepRestartsDailySet(t *testing.T) {
	var c Controller
	state := model.NewState()

	yesterday := makePicks(2)
	c.Apply(state, yesterday, model.ModeIncremental, runTime.Add(-24*time.Hour))
	require.Len(t, state.DailyEmitted, 2)

	today := []model.Pick{{
		Pairing:   "Wildcats @ Bulldogs",
		Selection: "Bulldogs -3.5",
		Status:    model.StatusPending,
	}}
	dedup.Assign(today, runTime)

	emitted := c.Apply(state, today, model.ModeFullSweep, runTime)
	require.Len(t, emitted, 1)

	// The daily set holds only this sweep's picks; the long-lived known
	// set keeps the earlier identities.
	assert.Equal(t, []string{today[0].Identity}, state.DailyEmitted)
	assert.True(t, state.Knows(yesterday[0].Identity))
}

func TestApplyFullSweepDedupsWithinBatch(t *testing.T) {
	var c Controller
	state := model.NewState()

	picks := makePicks(1)
	picks = append(picks, picks[0])

	emitted := c.Apply(state, picks, model.ModeFullSweep, runTime)
	assert.Len(t, emitted, 1)
	assert.Equal(t, 1, state.TotalEmitted)
}

func TestApplyEmptyBatch(t *testing.T) {
	var c Controller
	state := model.NewState()

	emitted := c.Apply(state, nil, model.ModeIncremental, runTime)
	assert.Empty(t, emitted)
	assert.Equal(t, 0, state.TotalEmitted)
	assert.Equal(t, runTime, state.LastCheckAt)
}
