package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chaosEnableFlags struct {
	Seed           uint64
	FailureRate    float64
	PaymentFailure float64
	RugRate        float64
	MinLatency     int64
	MaxLatency     int64
}

var chaosCmd = &cobra.Command{
	Use:   "chaos",
	Short: "Enable or disable the chaos engine",
}

var chaosEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable chaos with the given policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := postJSON("/_xdr/chaos", map[string]any{
			"enabled":              true,
			"seed":                 chaosEnableFlags.Seed,
			"global_failure_rate":  chaosEnableFlags.FailureRate,
			"payment_failure_rate": chaosEnableFlags.PaymentFailure,
			"rug_rate":             chaosEnableFlags.RugRate,
			"min_latency_ms":       chaosEnableFlags.MinLatency,
			"max_latency_ms":       chaosEnableFlags.MaxLatency,
		})
		if err != nil {
			exitWith(ExitGenericError, err.Error())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chaos enabled")
		return nil
	},
}

var chaosDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable the chaos engine",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := postJSON("/_xdr/chaos", map[string]any{"enabled": false})
		if err != nil {
			exitWith(ExitGenericError, err.Error())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "chaos disabled")
		return nil
	},
}

func init() {
	chaosEnableCmd.Flags().Uint64Var(&chaosEnableFlags.Seed, "seed", 42, "PRNG seed")
	chaosEnableCmd.Flags().Float64Var(&chaosEnableFlags.FailureRate, "failure-rate", 0.2, "global network failure rate")
	chaosEnableCmd.Flags().Float64Var(&chaosEnableFlags.PaymentFailure, "payment-failure", 0, "payment failure rate")
	chaosEnableCmd.Flags().Float64Var(&chaosEnableFlags.RugRate, "rug-rate", 0, "rug pull rate")
	chaosEnableCmd.Flags().Int64Var(&chaosEnableFlags.MinLatency, "min-latency", 200, "minimum injected latency (ms)")
	chaosEnableCmd.Flags().Int64Var(&chaosEnableFlags.MaxLatency, "max-latency", 200, "maximum injected latency (ms)")

	chaosCmd.AddCommand(chaosEnableCmd)
	chaosCmd.AddCommand(chaosDisableCmd)
}
