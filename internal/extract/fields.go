package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/pickwatch/internal/model"
)

// Plausibility bounds for numeric fields. A signed number outside these
// ranges is some other artifact (a year, a score, a record).
const (
	maxLineMagnitude = 50
	minOddsMagnitude = 100
	maxOddsMagnitude = 2000
	maxStakeUnits    = 10
)

var (
	selectionCueRe = regexp.MustCompile(`(?i)\b(?:pick|take|recommend|select|play|bet)\b[:\s]*`)
	signedDecimal  = regexp.MustCompile(`[+-]\d+(?:\.\d+)?`)
	signedInteger  = regexp.MustCompile(`[+-]\d{3,4}\b`)
	stakeRe        = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*units?\b`)
)

// buildPick derives all secondary fields from a candidate's context
// window. Missing fields resolve to documented defaults, never errors.
func (e *Engine) buildPick(c model.Candidate) model.Pick {
	side := e.resolveSelection(c)
	selection := side
	if line, ok := findLine(c.Context); ok {
		selection = side + " " + line
	}

	return model.Pick{
		Pairing:   c.SideA + " @ " + c.SideB,
		Selection: selection,
		Price:     findPrice(c.Context),
		Stake:     findStake(c.Context),
		Tier:      findTier(c.Context),
		Category:  classify(c.SideA, c.SideB),
		Status:    findStatus(c.Context),
		Analysis:  e.findAnalysis(c),
	}
}

// resolveSelection picks the chosen side, in order: explicit cue phrase
// naming a side, a side immediately followed by a signed line, then the
// home side as the default.
func (e *Engine) resolveSelection(c model.Candidate) string {
	// (a) "Pick <side>" style cue directly before one of the two names.
	for _, loc := range selectionCueRe.FindAllStringIndex(c.Context, -1) {
		rest := c.Context[loc[1]:]
		for _, side := range []string{c.SideA, c.SideB} {
			if strings.HasPrefix(rest, side) {
				return side
			}
		}
	}

	// (b) a side immediately followed by a signed number in line range.
	for _, side := range []string{c.SideA, c.SideB} {
		re := regexp.MustCompile(regexp.QuoteMeta(side) + `\s*([+-]\d+(?:\.\d+)?)`)
		if m := re.FindStringSubmatch(c.Context); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && abs(v) < maxLineMagnitude {
				return side
			}
		}
	}

	// (c) default to the home side.
	return c.SideB
}

// findLine returns the first signed decimal in spread range.
func findLine(ctx string) (string, bool) {
	for _, m := range signedDecimal.FindAllString(ctx, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if abs(v) < maxLineMagnitude {
			return m, true
		}
	}
	return "", false
}

// findPrice returns the first signed 3-4 digit integer in odds range, or
// the unavailable sentinel.
func findPrice(ctx string) string {
	for _, m := range signedInteger.FindAllString(ctx, -1) {
		v, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if a := v; a < 0 {
			a = -a
			if a >= minOddsMagnitude && a <= maxOddsMagnitude {
				return m
			}
		} else if v >= minOddsMagnitude && v <= maxOddsMagnitude {
			return m
		}
	}
	return model.PriceUnknown
}

// findStake returns the first "<n> unit(s)" mention with 0 < n <= 10.
func findStake(ctx string) string {
	for _, m := range stakeRe.FindAllStringSubmatch(ctx, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v <= 0 || v > maxStakeUnits {
			continue
		}
		if v == 1 {
			return "1 unit"
		}
		return m[1] + " units"
	}
	return model.DefaultStake
}

// findTier walks the confidence ladder highest to lowest.
func findTier(ctx string) model.Tier {
	lower := strings.ToLower(ctx)
	for _, rung := range tierLadder {
		if containsWord(lower, rung.keyword) {
			return rung.tier
		}
	}
	return model.TierNone
}

// findStatus scans for settlement markers; absence means pending.
func findStatus(ctx string) model.PickStatus {
	lower := strings.ToLower(ctx)
	for _, marker := range statusMarkers {
		if containsWord(lower, marker.keyword) {
			return marker.status
		}
	}
	return model.StatusPending
}

// classify tags the matchup with a league via the ordered lookup table,
// falling back to the scholastic heuristic and then to unknown.
func classify(sideA, sideB string) string {
	a := strings.ToLower(sideA)
	b := strings.ToLower(sideB)
	for _, league := range leagueTable {
		for _, name := range league.names {
			if containsWord(a, name) || containsWord(b, name) {
				return league.category
			}
		}
	}
	for _, marker := range scholasticMarkers {
		if containsWord(a, marker) || containsWord(b, marker) {
			return "college"
		}
	}
	return model.CategoryUnknown
}

// findAnalysis extracts a sentence near an analysis cue. The excerpt must
// be long enough to mean something and mention one of the sides, else the
// generic fallback is used.
func (e *Engine) findAnalysis(c model.Candidate) string {
	lower := strings.ToLower(c.Context)
	for _, cue := range analysisCues {
		idx := strings.Index(lower, cue)
		if idx < 0 {
			continue
		}
		excerpt := c.Context[idx+len(cue):]
		if cut := strings.IndexAny(excerpt, ".!?"); cut > 0 {
			excerpt = excerpt[:cut+1]
		}
		excerpt = strings.TrimSpace(excerpt)
		if len(excerpt) >= 20 && mentionsSide(excerpt, c.SideA, c.SideB) {
			return truncate(excerpt, e.cfg.MaxAnalysisLen)
		}
	}
	return model.AnalysisFallback
}

// mentionsSide checks that the excerpt plausibly relates to the matchup.
func mentionsSide(excerpt, sideA, sideB string) bool {
	lower := strings.ToLower(excerpt)
	for _, side := range []string{sideA, sideB} {
		first := strings.ToLower(strings.Fields(side)[0])
		if strings.Contains(lower, first) {
			return true
		}
	}
	return false
}

// containsWord reports a whole-word, case-insensitive match. haystack must
// already be lowercase.
func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func truncate(s string, max int) string {
	if max > 0 && len(s) > max {
		return strings.TrimSpace(s[:max])
	}
	return s
}
