package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveUpstreamURLAbsoluteForm(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.test/a/b?c=1", nil)
	req.URL.Scheme = "http"
	req.URL.Host = "example.test"

	u, err := resolveUpstreamURL(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Host != "example.test" {
		t.Fatalf("expected host example.test, got %s", u.Host)
	}
}

func TestResolveUpstreamURLRelativeWithHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/data?x=1", nil)
	req.Header.Set("X-Upstream-Host", "example.test")

	u, err := resolveUpstreamURL(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.String() != "https://example.test/data?x=1" {
		t.Fatalf("unexpected resolved URL: %s", u.String())
	}
}

func TestResolveUpstreamURLMissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/data", nil)
	_, err := resolveUpstreamURL(req)
	if err == nil {
		t.Fatal("expected error when X-Upstream-Host is missing")
	}
}

func TestStripHopByHopHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Connection", "keep-alive")
	h.Set("Transfer-Encoding", "chunked")
	h.Set("X-Custom", "keep-me")

	stripHopByHop(h)

	if h.Get("Connection") != "" || h.Get("Transfer-Encoding") != "" {
		t.Fatal("expected hop-by-hop headers to be stripped")
	}
	if h.Get("X-Custom") != "keep-me" {
		t.Fatal("expected non-hop-by-hop header to survive")
	}
}
