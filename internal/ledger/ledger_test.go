package ledger

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"xdr/internal/metrics"
)

func newTestLedger() *Ledger {
	return New(zerolog.Nop(), metrics.New())
}

func TestRegisterOrGetIdempotent(t *testing.T) {
	l := newTestLedger()

	a1, isNew1 := l.RegisterOrGet("a1")
	if !isNew1 {
		t.Fatal("expected first registration to be new")
	}
	if !a1.Balance.Equal(InitialBalance) {
		t.Fatalf("expected initial balance %s, got %s", InitialBalance, a1.Balance)
	}
	if !a1.BudgetLimit.Equal(InitialBudgetLimit) {
		t.Fatalf("expected initial budget limit %s, got %s", InitialBudgetLimit, a1.BudgetLimit)
	}

	a2, isNew2 := l.RegisterOrGet("a1")
	if isNew2 {
		t.Fatal("expected second registration to report isNew=false")
	}
	if !a2.Balance.Equal(a1.Balance) || a2.ID != a1.ID {
		t.Fatal("expected identical state on second registration")
	}
}

func TestGetStateUnknownAgent(t *testing.T) {
	l := newTestLedger()
	if l.GetState("ghost") != nil {
		t.Fatal("expected nil for unknown agent")
	}
}

func TestPayInvoiceSuccess(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	inv := l.CreateInvoice("a1", ChallengeInvoiceAmount)

	receipt, err := l.PayInvoice(inv.ID, "a1", "cronos-testnet")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if receipt.ChainID != "338" {
		t.Fatalf("expected chain_id 338 for testnet, got %s", receipt.ChainID)
	}
	if receipt.BlockHeight != 10_000_001 {
		t.Fatalf("expected block height 10000001, got %d", receipt.BlockHeight)
	}
	if len(receipt.TxHash) != 66 || receipt.TxHash[:2] != "0x" {
		t.Fatalf("expected 0x + 64 hex chars, got %q", receipt.TxHash)
	}

	state := l.GetState("a1")
	if !state.Balance.Equal(decimal.NewFromFloat(99.99)) {
		t.Fatalf("expected balance 99.99, got %s", state.Balance)
	}
	if !state.TotalSpend.Equal(decimal.NewFromFloat(0.01)) {
		t.Fatalf("expected total_spend 0.01, got %s", state.TotalSpend)
	}
	if state.PaymentCount != 1 {
		t.Fatalf("expected payment_count 1, got %d", state.PaymentCount)
	}
}

func TestPayInvoiceMainnetChainID(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	inv := l.CreateInvoice("a1", ChallengeInvoiceAmount)

	receipt, err := l.PayInvoice(inv.ID, "a1", "cronos-mainnet")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if receipt.ChainID != "25" {
		t.Fatalf("expected chain_id 25 for mainnet, got %s", receipt.ChainID)
	}
}

func TestPayInvoiceDoublePaymentFails(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	inv := l.CreateInvoice("a1", ChallengeInvoiceAmount)

	if _, err := l.PayInvoice(inv.ID, "a1", "cronos-testnet"); err != nil {
		t.Fatalf("expected first payment to succeed, got %v", err)
	}
	_, err := l.PayInvoice(inv.ID, "a1", "cronos-testnet")
	if err != ErrInvoiceAlreadyPaid {
		t.Fatalf("expected ErrInvoiceAlreadyPaid, got %v", err)
	}
}

func TestPayInvoiceWrongAgent(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a3")
	l.RegisterOrGet("a4")
	inv := l.CreateInvoice("a3", ChallengeInvoiceAmount)

	_, err := l.PayInvoice(inv.ID, "a4", "cronos-testnet")
	if err != ErrInvoiceWrongAgent {
		t.Fatalf("expected ErrInvoiceWrongAgent, got %v", err)
	}

	stored := l.GetInvoice(inv.ID)
	if stored.Paid {
		t.Fatal("invoice must remain unpaid after wrong-agent attempt")
	}
}

func TestPayInvoiceUnknownInvoice(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	_, err := l.PayInvoice("does-not-exist", "a1", "cronos-testnet")
	if err != ErrInvoiceInvalid {
		t.Fatalf("expected ErrInvoiceInvalid, got %v", err)
	}
}

func TestPayInvoiceAgentNotFound(t *testing.T) {
	l := newTestLedger()
	// Invoice created directly without registering the agent first.
	inv := l.CreateInvoice("ghost", ChallengeInvoiceAmount)
	_, err := l.PayInvoice(inv.ID, "ghost", "cronos-testnet")
	if err != ErrAgentNotFound {
		t.Fatalf("expected ErrAgentNotFound, got %v", err)
	}
}

func TestPayInvoiceInsufficientFunds(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	l.SetBalance("a1", decimal.NewFromFloat(0.001))
	inv := l.CreateInvoice("a1", ChallengeInvoiceAmount)

	_, err := l.PayInvoice(inv.ID, "a1", "cronos-testnet")
	if err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPayInvoiceBudgetCapExceeded(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a2")
	l.SetBalance("a2", decimal.NewFromInt(100))

	var lastErr error
	for i := 0; i < 1001; i++ {
		inv := l.CreateInvoice("a2", ChallengeInvoiceAmount)
		_, lastErr = l.PayInvoice(inv.ID, "a2", "cronos-testnet")
	}
	if lastErr != ErrBudgetExceeded {
		t.Fatalf("expected 1001st attempt to fail with ErrBudgetExceeded, got %v", lastErr)
	}

	state := l.GetState("a2")
	if !state.TotalSpend.Equal(decimal.NewFromFloat(10.00)) {
		t.Fatalf("expected total_spend capped at 10.00, got %s", state.TotalSpend)
	}
	if state.PaymentCount != 1000 {
		t.Fatalf("expected payment_count 1000, got %d", state.PaymentCount)
	}
}

func TestPayInvoiceConcurrentSameAgent(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")

	const n = 50
	invoices := make([]*Invoice, n)
	for i := range invoices {
		invoices[i] = l.CreateInvoice("a1", ChallengeInvoiceAmount)
	}

	var wg sync.WaitGroup
	successes := make([]bool, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.PayInvoice(invoices[i].ID, "a1", "cronos-testnet")
			successes[i] = err == nil
		}(i)
	}
	wg.Wait()

	count := 0
	for _, ok := range successes {
		if ok {
			count++
		}
	}

	state := l.GetState("a1")
	if state.PaymentCount != int64(count) {
		t.Fatalf("payment_count %d does not match successful settlements %d", state.PaymentCount, count)
	}
	if state.TotalSpend.GreaterThan(state.BudgetLimit) {
		t.Fatal("invariant violated: total_spend exceeds budget_limit")
	}
	if state.Balance.LessThan(decimal.Zero) {
		t.Fatal("invariant violated: balance went negative")
	}
}

func TestListAllReturnsSnapshot(t *testing.T) {
	l := newTestLedger()
	l.RegisterOrGet("a1")
	l.RegisterOrGet("a2")

	all := l.ListAll()
	if len(all) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(all))
	}
}
