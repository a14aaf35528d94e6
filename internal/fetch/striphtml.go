package fetch

import (
	"regexp"
	"strings"
)

var (
	chromeBlockRes = buildChromeBlockRes()
	tagRe          = regexp.MustCompile(`<[^>]+>`)
	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
)

func buildChromeBlockRes() []*regexp.Regexp {
	var res []*regexp.Regexp
	for _, tag := range []string{"script", "style", "nav", "footer", "header", "noscript"} {
		res = append(res, regexp.MustCompile(`(?is)<`+tag+`[^>]*>.*?</`+tag+`>`))
	}
	return res
}

// StripHTML removes scripts/styles/nav/chrome blocks, strips tags,
// decodes entities, and collapses whitespace. The result is the page's
// visible text, ready for the extraction engine.
func StripHTML(html string) string {
	for _, re := range chromeBlockRes {
		html = re.ReplaceAllString(html, " ")
	}
	html = tagRe.ReplaceAllString(html, " ")
	html = entityReplacer.Replace(html)
	return strings.Join(strings.Fields(html), " ")
}
