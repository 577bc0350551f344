package proxy

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"xdr/internal/chaos"
)

func (p *Pipeline) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (p *Pipeline) handleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(p.met.Gatherer(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func (p *Pipeline) handleStatus(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agent")
	state := p.ledger.GetState(agentID)
	if state == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type budgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (p *Pipeline) handleBudget(w http.ResponseWriter, r *http.Request) {
	agentID := r.PathValue("agent")

	var body budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p.ledger.SetBalance(agentID, body.Amount)
	w.WriteHeader(http.StatusOK)
}

func (p *Pipeline) handleChaosConfig(w http.ResponseWriter, r *http.Request) {
	var cfg chaos.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p.chaos.SetConfig(cfg)
	p.log.Info().Bool("enabled", cfg.Enabled).Msg("proxy.chaos_config_updated")
	w.WriteHeader(http.StatusOK)
}

func (p *Pipeline) handleTraces(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, p.trace.All())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
