// Package model holds the domain types shared across the pipeline: picks,
// persisted monitor state, and run reporting.
package model

import "time"

// Sentinel values for fields the page did not yield. Extraction never
// fails on a missing field; it fills the documented default.
const (
	PriceUnknown     = "N/A"
	CategoryUnknown  = "unknown"
	DefaultStake     = "1 unit"
	AnalysisFallback = "No analysis provided."
)

// Tier is the handicapper's confidence grade.
type Tier string

const (
	TierNone   Tier = "none"
	TierGood   Tier = "good"
	TierStrong Tier = "strong"
	TierBest   Tier = "best"
	TierLock   Tier = "lock"
)

var tierRank = map[Tier]int{
	TierNone:   0,
	TierGood:   1,
	TierStrong: 2,
	TierBest:   3,
	TierLock:   4,
}

// Rank orders tiers by confidence; unknown values rank lowest.
func (t Tier) Rank() int { return tierRank[t] }

// AllTiers returns every tier, lowest confidence first.
func AllTiers() []Tier {
	return []Tier{TierNone, TierGood, TierStrong, TierBest, TierLock}
}

// PickStatus is the settlement state scraped off the page. Absence of a
// settlement marker means the pick is still live.
type PickStatus string

const (
	StatusPending PickStatus = "pending"
	StatusWon     PickStatus = "won"
	StatusLost    PickStatus = "lost"
	StatusPush    PickStatus = "push"
)

// Candidate is a raw matchup match before field extraction: the two side
// names and the text window surrounding the match.
type Candidate struct {
	SideA   string
	SideB   string
	Context string
}

// Pick is one canonical extracted recommendation.
type Pick struct {
	Pairing   string     `json:"pairing"`
	Selection string     `json:"selection"`
	Price     string     `json:"price"`
	Stake     string     `json:"stake"`
	Tier      Tier       `json:"tier"`
	Category  string     `json:"category"`
	Status    PickStatus `json:"status"`
	Analysis  string     `json:"analysis"`
	CreatedAt time.Time  `json:"created_at"`

	// Identity is the dedup fingerprint, stamped after extraction.
	Identity string `json:"identity"`
}
