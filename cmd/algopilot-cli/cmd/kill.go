package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var killCmd = &cobra.Command{
	Use:   "kill <algorithm-id>",
	Short: "Kill a running algorithm",
	Long: `Kill an algorithm by expiring it immediately.

The scheduler stops the runtime within one reconciliation interval plus the
grace period, and labels the record KILLED.`,
	Args: cobra.ExactArgs(1),
	RunE: runKill,
}

var extendCmd = &cobra.Command{
	Use:   "extend <algorithm-id>",
	Short: "Move an algorithm's expiration",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtend,
}

var extendTtl int64

func init() {
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(extendCmd)

	extendCmd.Flags().Int64Var(&extendTtl, "ttl", 0, "seconds from now until the new expiration (required)")
	extendCmd.MarkFlagRequired("ttl")
}

func runKill(cmd *cobra.Command, args []string) error {
	var out map[string]any
	if err := callApi("DELETE", "/algorithms/"+args[0], nil, &out); err != nil {
		return fmt.Errorf("kill: %w", err)
	}
	return printJson(out)
}

func runExtend(cmd *cobra.Command, args []string) error {
	var out map[string]any
	request := map[string]any{"ttlSeconds": extendTtl}
	if err := callApi("POST", "/algorithms/"+args[0]+"/expiration", request, &out); err != nil {
		return fmt.Errorf("extend: %w", err)
	}
	return printJson(out)
}
