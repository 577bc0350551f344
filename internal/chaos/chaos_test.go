package chaos

import (
	"testing"

	"xdr/internal/metrics"
)

func TestRollNetworkFailureDisabled(t *testing.T) {
	e := New(Config{Enabled: false, Seed: 1, GlobalFailureRate: 1.0}, metrics.New())
	for i := 0; i < 10; i++ {
		if _, ok := e.RollNetworkFailure(); ok {
			t.Fatal("expected no failures while disabled")
		}
	}
}

func TestRollNetworkFailureRateZero(t *testing.T) {
	e := New(Config{Enabled: true, Seed: 1, GlobalFailureRate: 0.0}, metrics.New())
	for i := 0; i < 50; i++ {
		if _, ok := e.RollNetworkFailure(); ok {
			t.Fatal("expected no failures at rate 0.0")
		}
	}
}

func TestRollNetworkFailureRateOne(t *testing.T) {
	e := New(Config{Enabled: true, Seed: 1, GlobalFailureRate: 1.0}, metrics.New())
	valid := map[int]bool{503: true, 429: true, 504: true}
	for i := 0; i < 50; i++ {
		code, ok := e.RollNetworkFailure()
		if !ok {
			t.Fatal("expected a failure at rate 1.0")
		}
		if !valid[code] {
			t.Fatalf("unexpected code %d", code)
		}
	}
}

func TestInjectLatencyNoopWhenDisabledOrZeroRange(t *testing.T) {
	e := New(Config{Enabled: false, MinLatencyMs: 100, MaxLatencyMs: 200}, metrics.New())
	e.InjectLatency() // should return immediately

	e2 := New(Config{Enabled: true, MinLatencyMs: 0, MaxLatencyMs: 0}, metrics.New())
	e2.InjectLatency() // should return immediately
}

func TestSetConfigReseedsDeterministically(t *testing.T) {
	cfg := Config{Enabled: true, Seed: 42, GlobalFailureRate: 1.0}

	e1 := New(cfg, metrics.New())
	var codes1 []int
	for i := 0; i < 3; i++ {
		code, _ := e1.RollNetworkFailure()
		codes1 = append(codes1, code)
	}

	e2 := New(cfg, metrics.New())
	var codes2 []int
	for i := 0; i < 3; i++ {
		code, _ := e2.RollNetworkFailure()
		codes2 = append(codes2, code)
	}

	for i := range codes1 {
		if codes1[i] != codes2[i] {
			t.Fatalf("expected identical sequence for same seed, got %v vs %v", codes1, codes2)
		}
	}
}

func TestSetConfigReseedBeforeInstall(t *testing.T) {
	e := New(Config{Enabled: true, Seed: 1, GlobalFailureRate: 1.0}, metrics.New())
	e.RollNetworkFailure()
	e.RollNetworkFailure()

	// Reconfiguring with the same seed must restart the stream from
	// scratch, not continue it.
	e.SetConfig(Config{Enabled: true, Seed: 1, GlobalFailureRate: 1.0})
	first, _ := e.RollNetworkFailure()

	fresh := New(Config{Enabled: true, Seed: 1, GlobalFailureRate: 1.0}, metrics.New())
	freshFirst, _ := fresh.RollNetworkFailure()

	if first != freshFirst {
		t.Fatalf("expected reseeded engine to match a fresh engine's first roll, got %d vs %d", first, freshFirst)
	}
}

func TestRollPaymentFailureAndRugPullDisabled(t *testing.T) {
	e := New(Config{Enabled: false, PaymentFailureRate: 1.0, RugRate: 1.0}, metrics.New())
	if e.RollPaymentFailure() {
		t.Fatal("expected no payment failure while disabled")
	}
	if e.RollRugPull() {
		t.Fatal("expected no rug pull while disabled")
	}
}
