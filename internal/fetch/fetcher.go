// Package fetch acquires the visible text of monitored pages: session
// login, rate-limited HTTP, paywall/block detection, and HTML stripping.
// The extraction engine only ever sees the plaintext this package emits.
package fetch

import "context"

// Fetcher retrieves a page's visible text content. An empty string with
// a nil error means the page had no usable text ("no picks today" is the
// engine's call, not the fetcher's).
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}
