package proxy

import (
	"encoding/json"
	"net/http"
	"strconv"

	"xdr/internal/trace"
)

// finishText finalizes the trace with status, commits it to the ring
// buffer, and writes a plain-text response. The trace's final status and
// the status the client observes are always identical.
func (p *Pipeline) finishText(w http.ResponseWriter, tr *trace.Trace, status int, body string) {
	tr.Finish(status)
	p.trace.Commit(tr)
	p.met.ProxyRequests.WithLabelValues(strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// finishJSON finalizes and commits the trace, then writes a JSON response.
func (p *Pipeline) finishJSON(w http.ResponseWriter, tr *trace.Trace, status int, body any) {
	tr.Finish(status)
	p.trace.Commit(tr)
	p.met.ProxyRequests.WithLabelValues(strconv.Itoa(status)).Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
