// Package ledger implements per-agent virtual wallets, pending invoices,
// and atomic payment settlement.
package ledger

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"xdr/internal/metrics"
)

// Ledger holds all agent wallets and invoices for the process lifetime.
// It has no persistence and is discarded on exit.
type Ledger struct {
	log zerolog.Logger
	met *metrics.Registry

	agentsMu sync.RWMutex
	agents   map[string]*AgentState
	agentLk  *keyedMutex

	invoicesMu sync.RWMutex
	invoices   map[string]*Invoice
	invoiceLk  *keyedMutex
}

// New returns an empty Ledger.
func New(log zerolog.Logger, met *metrics.Registry) *Ledger {
	return &Ledger{
		log:       log.With().Str("component", "ledger").Logger(),
		met:       met,
		agents:    make(map[string]*AgentState),
		agentLk:   newKeyedMutex(),
		invoices:  make(map[string]*Invoice),
		invoiceLk: newKeyedMutex(),
	}
}

func newAgent(id string) *AgentState {
	return &AgentState{
		ID:          id,
		Balance:     InitialBalance,
		TotalSpend:  decimal.Zero,
		BudgetLimit: InitialBudgetLimit,
		Active:      true,
	}
}

func cloneAgent(a *AgentState) *AgentState {
	cp := *a
	return &cp
}

// RegisterOrGet returns the agent's state, creating it with the default
// balance and budget limit if this is the first reference. Idempotent:
// a second call for the same id returns isNew=false and identical state.
func (l *Ledger) RegisterOrGet(agentID string) (state *AgentState, isNew bool) {
	unlock := l.agentLk.lock(agentID)
	defer unlock()

	l.agentsMu.Lock()
	a, ok := l.agents[agentID]
	if !ok {
		a = newAgent(agentID)
		l.agents[agentID] = a
		l.agentsMu.Unlock()

		l.met.LedgerAgentsRegistered.Inc()
		l.log.Info().Str("agent_id", agentID).Msg("ledger.agent_registered")
		return cloneAgent(a), true
	}
	l.agentsMu.Unlock()
	return cloneAgent(a), false
}

// GetState returns a snapshot of the agent's state, or nil if unknown.
func (l *Ledger) GetState(agentID string) *AgentState {
	l.agentsMu.RLock()
	a, ok := l.agents[agentID]
	l.agentsMu.RUnlock()
	if !ok {
		return nil
	}
	return cloneAgent(a)
}

// ListAll returns a snapshot of every known agent's state.
func (l *Ledger) ListAll() []*AgentState {
	l.agentsMu.RLock()
	defer l.agentsMu.RUnlock()
	out := make([]*AgentState, 0, len(l.agents))
	for _, a := range l.agents {
		out = append(out, cloneAgent(a))
	}
	return out
}

// SetBalance is an administrative operation: it overwrites the agent's
// balance, creating the agent (with default budget limit) if absent.
func (l *Ledger) SetBalance(agentID string, amount decimal.Decimal) {
	unlock := l.agentLk.lock(agentID)
	defer unlock()

	l.agentsMu.Lock()
	defer l.agentsMu.Unlock()
	a, ok := l.agents[agentID]
	if !ok {
		a = newAgent(agentID)
		l.agents[agentID] = a
	}
	a.Balance = amount
}

// CreateInvoice opens a new unpaid invoice for the given agent and amount.
func (l *Ledger) CreateInvoice(agentID string, amount decimal.Decimal) *Invoice {
	inv := &Invoice{
		ID:      uuid.NewString(),
		Amount:  amount,
		AgentID: agentID,
		Paid:    false,
	}
	l.invoicesMu.Lock()
	l.invoices[inv.ID] = inv
	l.invoicesMu.Unlock()
	return inv
}

// GetInvoice returns a snapshot of an invoice, or nil if unknown.
func (l *Ledger) GetInvoice(invoiceID string) *Invoice {
	l.invoicesMu.RLock()
	inv, ok := l.invoices[invoiceID]
	l.invoicesMu.RUnlock()
	if !ok {
		return nil
	}
	cp := *inv
	return &cp
}

// PayInvoice settles invoiceID against agentID, atomically per (agent,
// invoice). Lock order is fixed: invoice first, then agent, to avoid
// deadlock with any future cross-resource operation.
func (l *Ledger) PayInvoice(invoiceID, agentID, network string) (*PaymentReceipt, error) {
	unlockInvoice := l.invoiceLk.lock(invoiceID)
	defer unlockInvoice()

	unlockAgent := l.agentLk.lock(agentID)
	defer unlockAgent()

	l.invoicesMu.Lock()
	inv, ok := l.invoices[invoiceID]
	l.invoicesMu.Unlock()
	if !ok {
		l.recordFailure(agentID, ErrInvoiceInvalid)
		return nil, ErrInvoiceInvalid
	}
	if inv.Paid {
		l.recordFailure(agentID, ErrInvoiceAlreadyPaid)
		return nil, ErrInvoiceAlreadyPaid
	}
	if inv.AgentID != agentID {
		l.recordFailure(agentID, ErrInvoiceWrongAgent)
		return nil, ErrInvoiceWrongAgent
	}

	l.agentsMu.Lock()
	a, ok := l.agents[agentID]
	l.agentsMu.Unlock()
	if !ok {
		l.recordFailure(agentID, ErrAgentNotFound)
		return nil, ErrAgentNotFound
	}

	if a.Balance.LessThan(inv.Amount) {
		l.recordFailure(agentID, ErrInsufficientFunds)
		return nil, ErrInsufficientFunds
	}
	if a.TotalSpend.Add(inv.Amount).GreaterThan(a.BudgetLimit) {
		l.recordFailure(agentID, ErrBudgetExceeded)
		return nil, ErrBudgetExceeded
	}

	l.agentsMu.Lock()
	a.Balance = a.Balance.Sub(inv.Amount)
	a.TotalSpend = a.TotalSpend.Add(inv.Amount)
	a.PaymentCount++
	l.agentsMu.Unlock()

	l.invoicesMu.Lock()
	inv.Paid = true
	l.invoicesMu.Unlock()

	chainID := "338"
	if network == "cronos-mainnet" {
		chainID = "25"
	}
	receipt := &PaymentReceipt{
		NewBalance:  a.Balance,
		TxHash:      newTxHash(),
		ChainID:     chainID,
		BlockHeight: 10_000_000 + a.PaymentCount,
	}

	l.met.LedgerPayments.WithLabelValues("settled").Inc()
	l.log.Info().
		Str("agent_id", agentID).
		Str("invoice_id", invoiceID).
		Str("tx_hash", receipt.TxHash).
		Msg("ledger.payment_settled")

	return receipt, nil
}

func (l *Ledger) recordFailure(agentID string, err error) {
	l.met.LedgerPayments.WithLabelValues("failed").Inc()
	l.log.Debug().
		Str("agent_id", agentID).
		Err(err).
		Msg("ledger.payment_failed")
}
