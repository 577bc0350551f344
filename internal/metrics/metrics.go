// Package metrics wires the Prometheus counters and histograms shared by
// the ledger, chaos engine, and proxy pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry bundles every metric the runtime exposes on /_xdr/metrics. A
// single Registry is constructed once and shared by handle into every
// component: an independently constructed value with its own internal
// synchronization, not the global DefaultRegisterer.
type Registry struct {
	reg *prometheus.Registry

	LedgerPayments         *prometheus.CounterVec
	LedgerAgentsRegistered prometheus.Counter

	ChaosNetworkFailures *prometheus.CounterVec
	ChaosPaymentFailures prometheus.Counter
	ChaosRugPulls        prometheus.Counter
	ChaosLatencyMs       prometheus.Histogram

	ProxyRequests       *prometheus.CounterVec
	ProxyUpstreamErrors prometheus.Counter
}

// New registers and returns a fresh Registry. Each call produces an
// independent prometheus.Registry (not the global DefaultRegisterer), so
// tests can construct multiple Registries without collector collisions.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		LedgerPayments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xdr_ledger_payments_total",
			Help: "Total ledger payment attempts by result.",
		}, []string{"result"}),
		LedgerAgentsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdr_ledger_agents_registered_total",
			Help: "Total distinct agents registered with the ledger.",
		}),
		ChaosNetworkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xdr_chaos_network_failures_total",
			Help: "Total injected network failures by status code.",
		}, []string{"code"}),
		ChaosPaymentFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdr_chaos_payment_failures_total",
			Help: "Total injected payment failures.",
		}),
		ChaosRugPulls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdr_chaos_rug_pulls_total",
			Help: "Total injected rug-pull failures.",
		}),
		ChaosLatencyMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "xdr_chaos_latency_ms",
			Help:    "Injected latency in milliseconds.",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		ProxyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xdr_proxy_requests_total",
			Help: "Total proxied requests by final status.",
		}, []string{"status"}),
		ProxyUpstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdr_proxy_upstream_errors_total",
			Help: "Total upstream transport failures.",
		}),
	}

	reg.MustRegister(
		r.LedgerPayments,
		r.LedgerAgentsRegistered,
		r.ChaosNetworkFailures,
		r.ChaosPaymentFailures,
		r.ChaosRugPulls,
		r.ChaosLatencyMs,
		r.ProxyRequests,
		r.ProxyUpstreamErrors,
	)
	return r
}

// Gatherer exposes the underlying prometheus.Registry for the /_xdr/metrics
// handler to serve via promhttp.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
