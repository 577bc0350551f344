package cli

import (
	"github.com/spf13/cobra"

	"xdr/internal/dashboard"
)

var dashboardFlags struct {
	Network string
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := dashboard.Run(controlPlaneBase(), dashboardFlags.Network); err != nil {
			exitWith(ExitGenericError, err.Error())
		}
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardFlags.Network, "network", "cronos-testnet", "network label shown in the status bar")
}
