package extract

import (
	"regexp"
	"strings"
)

// Boilerplate that leaks into scraped names and snippets: timezone
// markers, bet-type labels, subscription prompts, copyright notices.
var boilerplateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:PDT|PST|EDT|EST|CDT|CST|MDT|MST)\b`),
	regexp.MustCompile(`(?i)\b(?:money line|point spread|against the spread|over under)\b`),
	regexp.MustCompile(`(?i)\bsubscribe(?: now)?\b`),
	regexp.MustCompile(`(?i)\ball rights reserved\b`),
	regexp.MustCompile(`(?i)\bfree (?:pick|trial)\b`),
	regexp.MustCompile(`©\S*`),
}

var (
	separatorRe  = regexp.MustCompile(`\s*@\s*`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// Clean is the pure text-cleanup applied to pairing and selection
// strings. Idempotent: Clean(Clean(x)) == Clean(x).
func Clean(s string) string {
	for _, re := range boilerplateRes {
		s = re.ReplaceAllString(s, " ")
	}
	s = collapseDupWords(s)
	s = separatorRe.ReplaceAllString(s, " @ ")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// collapseDupWords drops a token equal to its predecessor ("Lakers
// Lakers Lakers" becomes "Lakers"), an artifact of concatenated DOM
// text.
func collapseDupWords(s string) string {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return s
	}
	out := fields[:1]
	for _, f := range fields[1:] {
		if f == out[len(out)-1] {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// CleanAnalysis cleans a free-text excerpt and bounds its length.
func (e *Engine) CleanAnalysis(s string) string {
	return truncate(Clean(s), e.cfg.MaxAnalysisLen)
}
