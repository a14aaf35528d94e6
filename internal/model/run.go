package model

import "time"

// RunMode selects the emission semantics for one monitoring pass.
type RunMode string

const (
	// ModeFullSweep emits every pending pick on the page regardless of
	// history, typically scheduled once daily.
	ModeFullSweep RunMode = "full_sweep"

	// ModeIncremental emits only picks not seen before.
	ModeIncremental RunMode = "incremental"
)

// RunReport summarizes one monitoring pass for logging and notification.
type RunReport struct {
	RunID     string        `json:"run_id"`
	Mode      RunMode       `json:"mode"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	Sources    int `json:"sources"`
	FetchFails int `json:"fetch_fails"`
	Candidates int `json:"candidates"`
	Extracted  int `json:"extracted"`
	Emitted    int `json:"emitted"`
}
