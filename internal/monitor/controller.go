package monitor

import (
	"time"

	"github.com/sells-group/pickwatch/internal/dedup"
	"github.com/sells-group/pickwatch/internal/model"
)

// Controller applies run-mode semantics to one batch of validated picks.
// It is pure state-machine logic: no I/O, no clock reads; the caller
// supplies the mode and the current time.
type Controller struct{}

// Apply decides the emission set for the run and mutates state
// accordingly.
//
// Full sweep: every pending pick is emitted regardless of prior history,
// and the daily emitted set starts over with this sweep's picks.
// Incremental: only picks whose identity is novel against the long-lived
// known set are emitted.
//
// In both modes the emitted identities land in the known set (bounded,
// oldest evicted) and the daily set, and the run metadata is stamped.
func (Controller) Apply(state *model.State, picks []model.Pick, mode model.RunMode, now time.Time) []model.Pick {
	var emitted []model.Pick

	switch mode {
	case model.ModeFullSweep:
		seen := make(map[string]struct{})
		for _, p := range picks {
			if p.Status != model.StatusPending {
				continue
			}
			if _, dup := seen[p.Identity]; dup {
				continue
			}
			seen[p.Identity] = struct{}{}
			emitted = append(emitted, p)
		}
		state.ResetDaily()
		state.LastFullSweepAt = now

	default: // incremental
		emitted = dedup.Filter(picks, state)
	}

	for _, p := range emitted {
		state.Remember(p.Identity)
	}
	state.TotalEmitted += len(emitted)
	state.LastCheckAt = now

	return emitted
}
