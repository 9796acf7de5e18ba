package media

import (
	"context"
	"net/http"
	"time"
)

const resolveTimeout = 15 * time.Second

// ResolveURL follows redirects (share links, URL shorteners) and returns the
// final URL. Any failure falls back to the input.
func ResolveURL(ctx context.Context, rawURL string) string {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return rawURL
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return rawURL
	}
	defer resp.Body.Close()

	if final := resp.Request.URL.String(); final != "" {
		return final
	}
	return rawURL
}
