package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"xdr/internal/chaos"
	"xdr/internal/config"
	"xdr/internal/ledger"
	"xdr/internal/metrics"
	"xdr/internal/proxy"
	"xdr/internal/trace"
)

var runFlags struct {
	Network    string
	ConfigPath string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the proxy pipeline HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

		cfg, err := config.Load(runFlags.ConfigPath)
		if err != nil {
			log.Error().Err(err).Msg("cli.config_load_failed")
			exitWith(ExitGenericError, "failed to load config: "+err.Error())
		}
		if runFlags.Network != "" {
			cfg.Network = runFlags.Network
		}

		met := metrics.New()
		l := ledger.New(log, met)
		c := chaos.New(chaos.Config{
			Enabled:            cfg.Chaos.Enabled,
			Seed:               cfg.Chaos.Seed,
			GlobalFailureRate:  cfg.Chaos.GlobalFailureRate,
			PaymentFailureRate: cfg.Chaos.PaymentFailureRate,
			RugRate:            cfg.Chaos.RugRate,
			MinLatencyMs:       cfg.Chaos.MinLatencyMs,
			MaxLatencyMs:       cfg.Chaos.MaxLatencyMs,
		}, met)
		rec := trace.NewRecorder(trace.DefaultCapacity)

		p := proxy.New(log, met, l, c, rec, proxy.WithNetwork(cfg.Network))

		addr := "127.0.0.1:" + strconv.Itoa(globalFlags.Port)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().Str("addr", addr).Str("network", cfg.Network).Msg("cli.run_starting")
		if err := p.Run(ctx, addr); err != nil {
			log.Error().Err(err).Msg("cli.run_failed")
			exitWith(ExitBindFailure, "server error: "+err.Error())
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runFlags.Network, "network", "", "network identifier (e.g. cronos-mainnet, cronos-testnet)")
	runCmd.Flags().StringVar(&runFlags.ConfigPath, "config", "config.toml", "path to the TOML config file")
}
