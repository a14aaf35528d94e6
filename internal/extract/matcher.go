package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/pickwatch/internal/model"
)

// Side name bounds. Anything shorter than minSideLen or longer than
// maxSideLen is never a valid team name.
const (
	minSideLen = 3
	maxSideLen = 30
)

// sidePattern matches a team name: uppercase-led words, allowing inner
// punctuation found in real team names (49ers is covered by the later
// words; the leading token must start uppercase).
const sidePattern = `([A-Z][A-Za-z0-9'&-]*(?:\s+[A-Z0-9][A-Za-z0-9'&-]*){0,3})`

// matchRule pairs a separator pattern with a name, evaluated in order.
// The rule table replaces the per-version regex variants of the original
// scripts: one declarative list, first to last.
type matchRule struct {
	name string
	re   *regexp.Regexp
}

var matchRules = []matchRule{
	{"at-symbol", regexp.MustCompile(sidePattern + `\s*@\s*` + sidePattern)},
	{"versus", regexp.MustCompile(sidePattern + `\s+vs\.?\s+` + sidePattern)},
	{"at-word", regexp.MustCompile(sidePattern + `\s+at\s+` + sidePattern)},
}

// FindCandidates scans normalized page text with the ordered rule table
// and returns raw matchup candidates with their context windows. The list
// may contain overlapping matches; downstream dedup collapses them.
func (e *Engine) FindCandidates(text string) []model.Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []model.Candidate
	for _, rule := range matchRules {
		for _, loc := range rule.re.FindAllStringSubmatchIndex(text, -1) {
			sideA := strings.TrimSpace(text[loc[2]:loc[3]])
			sideB := strings.TrimSpace(text[loc[4]:loc[5]])
			if !plausibleSide(sideA) || !plausibleSide(sideB) {
				continue
			}

			start := loc[0] - e.cfg.ContextWindow
			if start < 0 {
				start = 0
			}
			end := loc[1] + e.cfg.ContextWindow
			if end > len(text) {
				end = len(text)
			}
			ctx := text[start:end]

			// Cheap precision gate: the surrounding text must read
			// like a recommendation, not a schedule listing.
			if !hasPickCue(ctx) {
				continue
			}

			out = append(out, model.Candidate{
				SideA:   sideA,
				SideB:   sideB,
				Context: ctx,
			})
		}
	}
	return out
}

// plausibleSide applies length bounds and the boilerplate blocklist.
func plausibleSide(side string) bool {
	if len(side) < minSideLen || len(side) > maxSideLen {
		return false
	}
	lower := strings.ToLower(side)
	for _, blocked := range sideBlocklist {
		if strings.Contains(lower, blocked) {
			return false
		}
	}
	return true
}

// hasPickCue reports whether the context contains a recommendation signal.
func hasPickCue(ctx string) bool {
	lower := strings.ToLower(ctx)
	for _, cue := range pickCues {
		if containsWord(lower, cue) {
			return true
		}
	}
	return false
}
