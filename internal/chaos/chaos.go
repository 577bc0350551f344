// Package chaos implements the deterministic chaos engine: a seeded
// ChaCha8 stream-cipher PRNG driving latency injection and failure rolls
// under a live-reconfigurable policy.
package chaos

import (
	"encoding/binary"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"xdr/internal/metrics"
)

// networkFailureCodes is the fixed multiset rolled uniformly on a network
// failure hit.
var networkFailureCodes = [3]int{503, 429, 504}

// Config is the live-reconfigurable chaos policy.
type Config struct {
	Enabled            bool    `json:"enabled"`
	Seed               uint64  `json:"seed"`
	GlobalFailureRate  float64 `json:"global_failure_rate"`
	PaymentFailureRate float64 `json:"payment_failure_rate"`
	RugRate            float64 `json:"rug_rate"`
	MinLatencyMs       int64   `json:"min_latency_ms"`
	MaxLatencyMs       int64   `json:"max_latency_ms"`
}

// Engine holds the single exclusive (config, PRNG) pair every roll
// operation mutates. A reader-writer split is incorrect here: every roll
// advances the stream, so even "read-only" rolls are writes to the PRNG.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	rng    *rand.Rand
	met    *metrics.Registry
}

// New constructs an Engine seeded from cfg, with cfg installed as its
// policy (enabled or disabled as cfg.Enabled says).
func New(cfg Config, met *metrics.Registry) *Engine {
	e := &Engine{met: met}
	e.SetConfig(cfg)
	return e
}

func seedFrom(seed uint64) [32]byte {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	return b
}

// SetConfig reseeds the PRNG from cfg.Seed, then installs cfg. The reseed
// precedes installation so the first roll after a config change uses the
// new seed.
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = rand.New(rand.NewChaCha8(seedFrom(cfg.Seed)))
	e.cfg = cfg
}

// GetConfig returns a snapshot of the current policy, for display.
func (e *Engine) GetConfig() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// RollNetworkFailure draws a Bernoulli(global_failure_rate); on a hit it
// returns one of {503, 429, 504} drawn uniformly, and ok=true. When chaos
// is disabled it always returns ok=false.
func (e *Engine) RollNetworkFailure() (code int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.Enabled {
		return 0, false
	}
	if e.rng.Float64() >= e.cfg.GlobalFailureRate {
		return 0, false
	}
	code = networkFailureCodes[e.rng.IntN(len(networkFailureCodes))]
	e.met.ChaosNetworkFailures.WithLabelValues(strconv.Itoa(code)).Inc()
	return code, true
}

// RollPaymentFailure draws a Bernoulli(payment_failure_rate).
func (e *Engine) RollPaymentFailure() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.Enabled {
		return false
	}
	hit := e.rng.Float64() < e.cfg.PaymentFailureRate
	if hit {
		e.met.ChaosPaymentFailures.Inc()
	}
	return hit
}

// RollRugPull draws a Bernoulli(rug_rate).
func (e *Engine) RollRugPull() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.cfg.Enabled {
		return false
	}
	hit := e.rng.Float64() < e.cfg.RugRate
	if hit {
		e.met.ChaosRugPulls.Inc()
	}
	return hit
}

// InjectLatency draws a uniform delay in [min_latency_ms, max_latency_ms]
// while holding the lock, then suspends the caller for that long after
// releasing it. No-op when disabled or max_latency_ms == 0.
func (e *Engine) InjectLatency() {
	e.mu.Lock()
	if !e.cfg.Enabled || e.cfg.MaxLatencyMs == 0 {
		e.mu.Unlock()
		return
	}
	lo, hi := e.cfg.MinLatencyMs, e.cfg.MaxLatencyMs
	var delay int64
	if hi <= lo {
		delay = lo
	} else {
		delay = lo + e.rng.Int64N(hi-lo+1)
	}
	e.mu.Unlock()

	e.met.ChaosLatencyMs.Observe(float64(delay))
	time.Sleep(time.Duration(delay) * time.Millisecond)
}
