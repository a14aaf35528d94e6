package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/pickwatch/internal/config"
	"github.com/sells-group/pickwatch/internal/resilience"
)

// HTTPFetcher implements Fetcher with a logged-in cookie session,
// per-host rate limiting, retry on transient failures, and HTML
// stripping.
type HTTPFetcher struct {
	client *http.Client
	fetch  config.FetchConfig
	source config.SourceConfig
	retry  resilience.RetryConfig

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	loggedIn bool
}

// NewHTTP creates an HTTPFetcher. Login is lazy: it happens before the
// first fetch only when credentials are configured.
func NewHTTP(fetchCfg config.FetchConfig, sourceCfg config.SourceConfig) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: cookie jar")
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: fetchCfg.Timeout(),
			Jar:     jar,
		},
		fetch:  fetchCfg,
		source: sourceCfg,
		retry: resilience.RetryConfig{
			MaxAttempts:    fetchCfg.MaxRetries,
			InitialBackoff: time.Second,
		},
		limiters: make(map[string]*rate.Limiter),
	}, nil
}

// FetchText fetches a page and returns its visible text. A paywalled
// body triggers one re-login before giving up on subscriber content.
func (f *HTTPFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	if f.source.Email != "" && f.source.LoginURL != "" {
		if err := f.ensureLogin(ctx); err != nil {
			// Keep going: public portions of the page may still
			// carry picks.
			zap.L().Warn("fetch: login failed, fetching anonymously", zap.Error(err))
		}
	}

	body, err := f.get(ctx, pageURL)
	if err != nil {
		return "", err
	}

	if Paywalled(string(body)) && f.source.Email != "" && f.source.LoginURL != "" {
		zap.L().Info("fetch: page looks paywalled, re-logging in", zap.String("url", pageURL))
		f.mu.Lock()
		f.loggedIn = false
		f.mu.Unlock()
		if err := f.ensureLogin(ctx); err == nil {
			if retried, rerr := f.get(ctx, pageURL); rerr == nil {
				body = retried
			}
		}
	}

	return StripHTML(string(body)), nil
}

// get performs a rate-limited GET with retry and block detection.
func (f *HTTPFetcher) get(ctx context.Context, pageURL string) ([]byte, error) {
	if err := f.limiter(pageURL).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fetch: rate limit wait")
	}

	var body []byte
	err := resilience.Do(ctx, f.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return eris.Wrap(err, "fetch: create request")
		}
		req.Header.Set("User-Agent", f.fetch.UserAgent)
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Cache-Control", "no-cache")
		req.Header.Set("Pragma", "no-cache")

		resp, err := f.client.Do(req)
		if err != nil {
			return eris.Wrap(err, "fetch: get")
		}
		defer func() { _ = resp.Body.Close() }()

		data, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.fetch.MaxBodyKB)*1024))
		if err != nil {
			return eris.Wrap(err, "fetch: read body")
		}

		if blocked, kind := DetectBlock(resp, data); blocked {
			return eris.Errorf("fetch: blocked (%s)", kind)
		}
		if resp.StatusCode >= 400 {
			err := eris.Errorf("fetch: status %d", resp.StatusCode)
			if resilience.IsTransientHTTPStatus(resp.StatusCode) {
				return resilience.NewTransientError(err, resp.StatusCode)
			}
			return err
		}

		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// ensureLogin performs the form login once per session.
func (f *HTTPFetcher) ensureLogin(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loggedIn {
		return nil
	}

	// Fetch the login page for its hidden form fields (CSRF tokens and
	// the like).
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.source.LoginURL, nil)
	if err != nil {
		return eris.Wrap(err, "fetch: create login page request")
	}
	req.Header.Set("User-Agent", f.fetch.UserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "fetch: get login page")
	}
	page, err := io.ReadAll(io.LimitReader(resp.Body, int64(f.fetch.MaxBodyKB)*1024))
	resp.Body.Close()
	if err != nil {
		return eris.Wrap(err, "fetch: read login page")
	}

	form := url.Values{}
	form.Set("email", f.source.Email)
	form.Set("password", f.source.Password)
	form.Set("remember", "1")
	form.Set("remember_me", "1")
	for name, value := range hiddenInputs(string(page)) {
		if form.Get(name) == "" {
			form.Set(name, value)
		}
	}

	post, err := http.NewRequestWithContext(ctx, http.MethodPost, f.source.LoginURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return eris.Wrap(err, "fetch: create login request")
	}
	post.Header.Set("User-Agent", f.fetch.UserAgent)
	post.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	loginResp, err := f.client.Do(post)
	if err != nil {
		return eris.Wrap(err, "fetch: post login")
	}
	_, _ = io.Copy(io.Discard, loginResp.Body)
	loginResp.Body.Close()
	if loginResp.StatusCode >= 400 {
		return eris.Errorf("fetch: login status %d", loginResp.StatusCode)
	}

	f.loggedIn = true
	return nil
}

var (
	inputTagRe   = regexp.MustCompile(`(?is)<input[^>]*>`)
	inputNameRe  = regexp.MustCompile(`(?i)name\s*=\s*["']([^"']+)["']`)
	inputValueRe = regexp.MustCompile(`(?i)value\s*=\s*["']([^"']*)["']`)
)

// hiddenInputs collects name/value pairs from all input tags on a page.
func hiddenInputs(page string) map[string]string {
	fields := make(map[string]string)
	for _, tag := range inputTagRe.FindAllString(page, -1) {
		name := inputNameRe.FindStringSubmatch(tag)
		if name == nil {
			continue
		}
		value := ""
		if m := inputValueRe.FindStringSubmatch(tag); m != nil {
			value = m[1]
		}
		if _, ok := fields[name[1]]; !ok {
			fields[name[1]] = value
		}
	}
	return fields
}

// limiter returns the per-host rate limiter, creating it on first use.
func (f *HTTPFetcher) limiter(pageURL string) *rate.Limiter {
	host := pageURL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.limiters[host]
	if !ok {
		perSec := f.fetch.RatePerSec
		if perSec <= 0 {
			perSec = 1
		}
		l = rate.NewLimiter(rate.Limit(perSec), 1)
		f.limiters[host] = l
	}
	return l
}
