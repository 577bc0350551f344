package proxy

import (
	"io"
	"net/http"
	"net/url"
	"strconv"

	"xdr/internal/trace"
)

// forward strips hop-by-hop headers, overwrites Host with the resolved
// upstream, streams the request body to upstream, and streams the
// response back without buffering. Redirects are not followed; the
// proxy is transparent.
func (p *Pipeline) forward(w http.ResponseWriter, r *http.Request, tr *trace.Trace, upstream *url.URL) {
	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, upstream.String(), r.Body)
	if err != nil {
		tr.Log(trace.CategoryError, err.Error())
		p.finishText(w, tr, http.StatusBadRequest, err.Error())
		return
	}

	outReq.Header = cloneHeader(r.Header)
	stripHopByHop(outReq.Header)
	outReq.Host = upstream.Host
	outReq.ContentLength = r.ContentLength

	resp, err := p.upstream.Do(outReq)
	if err != nil {
		// Stage 9: upstream transport failure.
		tr.Log(trace.CategoryUpstream, err.Error())
		p.met.ProxyUpstreamErrors.Inc()
		p.finishText(w, tr, http.StatusBadGateway, "upstream error: "+err.Error())
		return
	}
	defer resp.Body.Close()

	// Stage 10: upstream success — stream status, headers, and body back.
	tr.Log(trace.CategoryUpstream, "received status "+strconv.Itoa(resp.StatusCode))

	outHeader := w.Header()
	for k, v := range resp.Header {
		outHeader[k] = v
	}
	stripHopByHop(outHeader)

	tr.Finish(resp.StatusCode)
	p.trace.Commit(tr)
	p.met.ProxyRequests.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
