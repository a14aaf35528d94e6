// Package dedup assigns deterministic identities to picks and filters
// them against persisted history.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sells-group/pickwatch/internal/model"
)

// identityLen is the truncated hex width of a fingerprint.
const identityLen = 16

// Identity fingerprints a pick: a pure function of pairing, selection,
// and the calendar date (UTC). The same pick on the same day always
// hashes the same, which is what makes exactly-once notification work
// across independent runs; the same matchup on a later day is a fresh
// identity.
func Identity(pairing, selection string, day time.Time) string {
	h := sha256.Sum256([]byte(pairing + "|" + selection + "|" + day.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h[:])[:identityLen]
}

// Assign stamps every pick with its identity for the given day.
func Assign(picks []model.Pick, day time.Time) {
	for i := range picks {
		picks[i].Identity = Identity(picks[i].Pairing, picks[i].Selection, day)
	}
}

// Filter returns the picks whose identity the state does not already
// know, skipping duplicates within the batch itself.
func Filter(picks []model.Pick, state *model.State) []model.Pick {
	var novel []model.Pick
	seen := make(map[string]struct{})
	for _, p := range picks {
		if _, dup := seen[p.Identity]; dup {
			continue
		}
		seen[p.Identity] = struct{}{}
		if state.Knows(p.Identity) {
			continue
		}
		novel = append(novel, p)
	}
	return novel
}
