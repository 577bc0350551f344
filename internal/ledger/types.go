package ledger

import "github.com/shopspring/decimal"

// InitialBalance and InitialBudgetLimit are the values a freshly
// registered agent starts with.
var (
	InitialBalance     = decimal.NewFromFloat(100.00)
	InitialBudgetLimit = decimal.NewFromFloat(10.00)
)

// ChallengeInvoiceAmount is the fixed amount charged for a payment-gate
// challenge.
var ChallengeInvoiceAmount = decimal.NewFromFloat(0.01)

// AgentState is the wire and internal representation of an agent's
// virtual wallet. Mutated only while holding that agent's keyed lock.
type AgentState struct {
	ID           string          `json:"id"`
	Balance      decimal.Decimal `json:"balance"`
	TotalSpend   decimal.Decimal `json:"total_spend"`
	PaymentCount int64           `json:"payment_count"`
	BudgetLimit  decimal.Decimal `json:"budget_limit"`
	Active       bool            `json:"active"`
}

// Invoice is a pending or settled charge against a single agent.
type Invoice struct {
	ID      string          `json:"id"`
	Amount  decimal.Decimal `json:"amount"`
	AgentID string          `json:"agent_id"`
	Paid    bool            `json:"paid"`
}

// PaymentReceipt is returned by a successful PayInvoice settlement.
type PaymentReceipt struct {
	NewBalance  decimal.Decimal `json:"new_balance"`
	TxHash      string          `json:"tx_hash"`
	ChainID     string          `json:"chain_id"`
	BlockHeight int64           `json:"block_height"`
}
