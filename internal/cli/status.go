package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var statusFlags struct {
	Agent string
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print an agent's ledger state",
	RunE: func(cmd *cobra.Command, args []string) error {
		var state map[string]any
		status, err := getJSON("/_xdr/status/"+statusFlags.Agent, &state)
		if err != nil {
			if status == http.StatusNotFound {
				fmt.Fprintln(cmd.OutOrStdout(), "not found")
				return nil
			}
			exitWith(ExitGenericError, err.Error())
			return nil
		}
		out, _ := json.MarshalIndent(state, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusFlags.Agent, "agent", "", "agent id")
	_ = statusCmd.MarkFlagRequired("agent")
}
