package fetch

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot block detected.
type BlockType string

const (
	BlockNone      BlockType = ""
	BlockChallenge BlockType = "challenge"
	BlockCaptcha   BlockType = "captcha"
	BlockJSShell   BlockType = "js_shell"
)

// DetectBlock checks an HTTP response for signs of anti-bot protection.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	lower := strings.ToLower(string(body))

	// CDN challenge pages.
	if resp.StatusCode == 403 || resp.StatusCode == 503 {
		if resp.Header.Get("cf-ray") != "" || resp.Header.Get("server") == "cloudflare" {
			return true, BlockChallenge
		}
	}
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, BlockChallenge
	}

	// Captcha markers.
	if strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "hcaptcha") {
		return true, BlockCaptcha
	}

	// JS-only shell: very small body that demands javascript.
	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `meta http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}

// Paywalled reports whether the page body looks like the subscriber
// content was withheld: subscription prompts without any logged-in
// marker. Triggers one re-login attempt.
func Paywalled(body string) bool {
	lower := strings.ToLower(body)
	if !strings.Contains(lower, "subscribe now") {
		return false
	}
	for _, marker := range []string{"logout", "log out", "my account"} {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
