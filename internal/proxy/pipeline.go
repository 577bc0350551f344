// Package proxy implements the Proxy Pipeline: the inbound HTTP server
// hosting both the control plane (/_xdr/*) and the data-plane reverse
// proxy that enforces identity, chaos, and the payment gate before
// forwarding to upstream.
package proxy

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"xdr/internal/chaos"
	"xdr/internal/ledger"
	"xdr/internal/metrics"
	"xdr/internal/trace"
)

// Pipeline owns the shared handles to the ledger, chaos engine, and trace
// recorder, and provides (via Handler) the single http.Handler for the
// whole runtime. Each
// component is independently synchronized; the Pipeline itself holds no
// mutable state of its own beyond these handles.
type Pipeline struct {
	log     zerolog.Logger
	met     *metrics.Registry
	ledger  *ledger.Ledger
	chaos   *chaos.Engine
	trace   *trace.Recorder
	network string

	upstream *http.Client
	mux      *http.ServeMux
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithNetwork sets the network identifier used for chain_id selection on
// settlement (e.g. "cronos-mainnet", "cronos-testnet").
func WithNetwork(network string) Option {
	return func(p *Pipeline) { p.network = network }
}

// WithUpstreamClient overrides the http.Client used to forward requests to
// upstream, replacing the production default (e.g. to inject a test
// server's TLS trust or a custom transport).
func WithUpstreamClient(client *http.Client) Option {
	return func(p *Pipeline) { p.upstream = client }
}

// New constructs a Pipeline over the given shared component handles.
func New(log zerolog.Logger, met *metrics.Registry, l *ledger.Ledger, c *chaos.Engine, rec *trace.Recorder, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:     log.With().Str("component", "proxy").Logger(),
		met:     met,
		ledger:  l,
		chaos:   c,
		trace:   rec,
		network: "cronos-testnet",
		upstream: &http.Client{
			// Transparent proxy: redirects are not followed; the calling
			// agent itself decides what to do with a 3xx.
			CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /_xdr/healthz", p.handleHealthz)
	mux.HandleFunc("GET /_xdr/metrics", p.handleMetrics)
	mux.HandleFunc("GET /_xdr/status/{agent}", p.handleStatus)
	mux.HandleFunc("POST /_xdr/budget/{agent}", p.handleBudget)
	mux.HandleFunc("POST /_xdr/chaos", p.handleChaosConfig)
	mux.HandleFunc("GET /_xdr/traces", p.handleTraces)
	mux.HandleFunc("/", p.handleProxy)
	p.mux = mux

	return p
}

// Handler returns the Pipeline's composed http.Handler.
func (p *Pipeline) Handler() http.Handler {
	return p.mux
}

// Run binds addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (p *Pipeline) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return p.RunOnListener(ctx, ln)
}

// RunOnListener serves the Pipeline on an already-bound listener.
func (p *Pipeline) RunOnListener(ctx context.Context, ln net.Listener) error {
	if ln == nil {
		return errors.New("nil listener passed to RunOnListener")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Handler:           p.mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		err := server.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	p.log.Info().Str("addr", ln.Addr().String()).Msg("proxy.listening")

	select {
	case <-runCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.log.Info().Msg("proxy.shutting_down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
