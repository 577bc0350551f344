package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var logsFlags struct {
	Agent string
	JSON  bool
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recorded traces, optionally filtered by agent",
	RunE: func(cmd *cobra.Command, args []string) error {
		var traces []map[string]any
		if _, err := getJSON("/_xdr/traces", &traces); err != nil {
			exitWith(ExitGenericError, err.Error())
			return nil
		}

		for _, tr := range traces {
			if logsFlags.Agent != "" && tr["agent_id"] != logsFlags.Agent {
				continue
			}
			if logsFlags.JSON {
				line, _ := json.Marshal(tr)
				fmt.Fprintln(cmd.OutOrStdout(), string(line))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v %v %v -> %v\n", tr["id"], tr["method"], tr["url"], tr["status_code"])
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsFlags.Agent, "agent", "", "filter by agent id")
	logsCmd.Flags().BoolVar(&logsFlags.JSON, "json", false, "emit NDJSON instead of human-readable lines")
}
