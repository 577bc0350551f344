package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var budgetFlags struct {
	Agent string
	Set   float64
}

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Set an agent's balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := postJSON("/_xdr/budget/"+budgetFlags.Agent, map[string]any{
			"amount": budgetFlags.Set,
		})
		if err != nil {
			exitWith(ExitGenericError, err.Error())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	budgetCmd.Flags().StringVar(&budgetFlags.Agent, "agent", "", "agent id")
	budgetCmd.Flags().Float64Var(&budgetFlags.Set, "set", 0, "new balance amount")
	_ = budgetCmd.MarkFlagRequired("agent")
	_ = budgetCmd.MarkFlagRequired("set")
}
