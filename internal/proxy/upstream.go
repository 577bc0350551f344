package proxy

import (
	"fmt"
	"net/http"
	"net/url"
)

// resolveUpstreamURL implements the upstream URL resolution
// rule: an absolute-form request URI (scheme + host already present) is
// used verbatim; otherwise X-Upstream-Host is required and the URL is
// constructed as https://<host><path>[?query]. Any other shape is an
// error with a human-readable reason.
func resolveUpstreamURL(r *http.Request) (*url.URL, error) {
	if r.URL.IsAbs() {
		return r.URL, nil
	}

	host := r.Header.Get("X-Upstream-Host")
	if host == "" {
		return nil, fmt.Errorf("request URI is relative and X-Upstream-Host header is missing")
	}

	u := &url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
	return u, nil
}
