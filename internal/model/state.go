package model

import "time"

// KnownIdentityCap bounds the long-lived identity set. Identities rotate
// daily, so the cap only matters as a guard against unbounded growth;
// oldest entries are evicted first.
const KnownIdentityCap = 500

// State is the persisted monitor history that makes dedup work across
// independent runs.
type State struct {
	// KnownIdentities is the long-lived set of emitted fingerprints,
	// oldest first.
	KnownIdentities []string `json:"known_identities"`

	// DailyEmitted tracks what the current day's runs have emitted; a
	// full sweep restarts it.
	DailyEmitted []string `json:"daily_emitted"`

	LastFullSweepAt time.Time `json:"last_full_sweep_at"`
	LastCheckAt     time.Time `json:"last_check_at"`
	TotalEmitted    int       `json:"total_emitted"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{}
}

// Knows reports whether the identity has already been emitted.
func (s *State) Knows(identity string) bool {
	for _, known := range s.KnownIdentities {
		if known == identity {
			return true
		}
	}
	return false
}

// Remember records an emitted identity in both the long-lived set and
// the daily set, evicting the oldest known identity past the cap.
func (s *State) Remember(identity string) {
	if !s.Knows(identity) {
		s.KnownIdentities = append(s.KnownIdentities, identity)
		if n := len(s.KnownIdentities) - KnownIdentityCap; n > 0 {
			s.KnownIdentities = s.KnownIdentities[n:]
		}
	}
	for _, d := range s.DailyEmitted {
		if d == identity {
			return
		}
	}
	s.DailyEmitted = append(s.DailyEmitted, identity)
}

// ResetDaily clears the daily emitted set. The long-lived known set is
// untouched.
func (s *State) ResetDaily() {
	s.DailyEmitted = nil
}
