package proxy

import (
	"net/http"
	"strconv"
	"strings"

	"xdr/internal/ledger"
	"xdr/internal/trace"
)

const (
	l402Prefix        = "L402 "
	paymentAddress    = "0x000000000000000000000000000000000000dead"
	challengeCurrency = "USDC"
	challengeChain    = "cronos"
	challengeChainID  = 338
)

// handleProxy is the data-plane entry point: stage 1 of the
// ten-stage pipeline. Every stage below finalizes and commits the trace
// on its terminal outcome; exactly one trace is committed per request.
func (p *Pipeline) handleProxy(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("unknown", r.Method, r.URL.String())

	// Stage 2: inject latency (may suspend).
	p.chaos.InjectLatency()

	// Stage 3: roll network failure.
	if code, hit := p.chaos.RollNetworkFailure(); hit {
		tr.Log(trace.CategoryChaos, "injected network failure: "+strconv.Itoa(code))
		p.finishText(w, tr, code, "Chaos Error")
		return
	}

	// Stage 4: enforce identity.
	agentID := r.Header.Get("X-Agent-ID")
	if agentID == "" {
		tr.Log(trace.CategoryError, "missing X-Agent-ID header")
		p.finishText(w, tr, http.StatusBadRequest, "missing X-Agent-ID header")
		return
	}
	tr.AgentID = agentID
	tr.Log(trace.CategoryInfo, "agent identified: "+agentID)

	// Stage 5: register.
	p.ledger.RegisterOrGet(agentID)

	// Stage 6: payment gate.
	gated := strings.Contains(r.URL.Path, "paid") || r.Header.Get("X-Simulate-Payment") != ""
	if gated {
		if done := p.runPaymentGate(w, r, tr, agentID); done {
			return
		}
	}

	// Stage 7: resolve upstream URL.
	upstreamURL, err := resolveUpstreamURL(r)
	if err != nil {
		tr.Log(trace.CategoryError, err.Error())
		p.finishText(w, tr, http.StatusBadRequest, err.Error())
		return
	}

	// Stages 8-10: forward and stream the response.
	p.forward(w, r, tr, upstreamURL)
}

// runPaymentGate implements stage 6. It returns true if the request was
// fully handled (a terminal response was written), false if the request
// should fall through to upstream forwarding (a settled L402 payment).
func (p *Pipeline) runPaymentGate(w http.ResponseWriter, r *http.Request, tr *trace.Trace, agentID string) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, l402Prefix) {
		return p.runSettlement(w, r, tr, agentID, strings.TrimPrefix(auth, l402Prefix))
	}
	return p.runChallenge(w, tr, agentID)
}

func (p *Pipeline) runSettlement(w http.ResponseWriter, r *http.Request, tr *trace.Trace, agentID, invoiceID string) bool {
	if p.chaos.RollPaymentFailure() {
		tr.Log(trace.CategoryChaos, "injected payment failure")
		p.finishText(w, tr, http.StatusPaymentRequired, "Chaos: Payment Failed")
		return true
	}

	receipt, err := p.ledger.PayInvoice(invoiceID, agentID, p.network)
	if err != nil {
		tr.Log(trace.CategoryPayment, err.Error())
		p.finishJSON(w, tr, http.StatusPaymentRequired, map[string]any{
			"status": http.StatusPaymentRequired,
			"error":  err.Error(),
			"agent":  agentID,
		})
		return true
	}

	tr.Log(trace.CategoryPayment, "confirmed on chain: tx_hash="+receipt.TxHash+" block_height="+strconv.FormatInt(receipt.BlockHeight, 10))
	tr.Log(trace.CategoryPayment, "balance: "+receipt.NewBalance.String())
	tr.Log(trace.CategoryInfo, "chain_id="+receipt.ChainID)

	if p.chaos.RollRugPull() {
		tr.Log(trace.CategoryChaos, "injected rug pull")
		p.finishText(w, tr, http.StatusInternalServerError, "Rug Pull")
		return true
	}

	r.Header.Del("Authorization")
	return false
}

func (p *Pipeline) runChallenge(w http.ResponseWriter, tr *trace.Trace, agentID string) bool {
	inv := p.ledger.CreateInvoice(agentID, ledger.ChallengeInvoiceAmount)
	tr.Log(trace.CategoryPayment, "invoice issued: "+inv.ID)

	w.Header().Set("WWW-Authenticate", l402Prefix+"token="+inv.ID)
	p.finishJSON(w, tr, http.StatusPaymentRequired, map[string]any{
		"status":          http.StatusPaymentRequired,
		"x402_invoice":    inv.ID,
		"amount":          "0.01",
		"currency":        challengeCurrency,
		"chain":           challengeChain,
		"network":         p.network,
		"chain_id":        challengeChainID,
		"payment_address": paymentAddress,
	})
	return true
}

