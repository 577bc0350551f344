package dashboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// controlClient is a minimal HTTP client over the proxy pipeline's control
// plane. The dashboard never imports internal/ledger, internal/chaos, or
// internal/trace directly — it only ever sees their JSON wire shapes,
// preserving the external-collaborator boundary the dashboard keeps around
// the TUI.
type controlClient struct {
	base string
	http *http.Client
}

func newControlClient(base string) *controlClient {
	return &controlClient{base: base, http: &http.Client{Timeout: 5 * time.Second}}
}

type chaosStatus struct {
	Enabled            bool    `json:"enabled"`
	Seed               uint64  `json:"seed"`
	GlobalFailureRate  float64 `json:"global_failure_rate"`
	PaymentFailureRate float64 `json:"payment_failure_rate"`
	RugRate            float64 `json:"rug_rate"`
	MinLatencyMs       int64   `json:"min_latency_ms"`
	MaxLatencyMs       int64   `json:"max_latency_ms"`
}

type agentRow struct {
	ID           string `json:"id"`
	Balance      string `json:"balance"`
	TotalSpend   string `json:"total_spend"`
	PaymentCount int64  `json:"payment_count"`
	Active       bool   `json:"active"`
}

type traceEvent struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type traceRow struct {
	ID         string       `json:"id"`
	AgentID    string       `json:"agent_id"`
	Method     string       `json:"method"`
	URL        string       `json:"url"`
	StatusCode *int         `json:"status_code"`
	DurationMs *int64       `json:"duration_ms"`
	Events     []traceEvent `json:"events"`
}

func (c *controlClient) traces() ([]traceRow, error) {
	resp, err := c.http.Get(c.base + "/_xdr/traces")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out []traceRow
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *controlClient) status(agentID string) (*agentRow, error) {
	resp, err := c.http.Get(c.base + "/_xdr/status/" + agentID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	var out agentRow
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// toggleChaos flips chaos on/off. When enabling with a zero failure rate
// (chaos never configured before), it applies the same "sensible
// defaults" the original xdr-tui used: failure_rate 0.2, min_latency 200ms.
func (c *controlClient) toggleChaos(current chaosStatus) error {
	next := current
	next.Enabled = !current.Enabled
	if next.Enabled && next.GlobalFailureRate == 0 {
		next.GlobalFailureRate = 0.2
		next.MinLatencyMs = 200
		next.MaxLatencyMs = 200
	}
	buf, err := json.Marshal(next)
	if err != nil {
		return err
	}
	resp, err := c.http.Post(c.base+"/_xdr/chaos", "application/json", bytes.NewReader(buf))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}
