// Package cli implements the xdr command-line front end: a thin external
// collaborator over the proxy pipeline's control plane.
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// Exit codes for the xdr binary.
const (
	ExitSuccess      = 0
	ExitGenericError = 1
	ExitBindFailure  = 4
)

// GlobalFlags holds flags shared across all subcommands.
type GlobalFlags struct {
	Port int
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "xdr",
	Short: "Reverse-proxy payment-gate runtime with a deterministic chaos engine",
	Long:  "xdr is a developer-facing reverse proxy and simulation runtime for agents paying for HTTP resources with an L402-style token protocol.",
}

func init() {
	rootCmd.PersistentFlags().IntVar(&globalFlags.Port, "port", 4002, "control-plane / proxy port")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(chaosCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(dashboardCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// controlPlaneBase returns the base URL for the running instance's
// control plane, derived from the shared --port flag.
func controlPlaneBase() string {
	return "http://127.0.0.1:" + strconv.Itoa(globalFlags.Port)
}

// exitWith prints message to stderr and exits with code.
func exitWith(code int, msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
}
