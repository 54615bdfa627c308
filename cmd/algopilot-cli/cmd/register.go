package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new algorithm",
	Long: `Register a new algorithm with a strategy, tickers and a hard budget.

The algorithm starts within one scheduler interval of registration.

Example:
  algopilot register --strategy meanreversion --tickers AAPL,MSFT --budget 1000 --ttl 3600`,
	RunE: runRegister,
}

var (
	registerStrategy   string
	registerTickers    string
	registerExpression string
	registerBudget     string
	registerTtl        int64
)

func init() {
	rootCmd.AddCommand(registerCmd)

	registerCmd.Flags().StringVar(&registerStrategy, "strategy", "", "strategy name (required)")
	registerCmd.Flags().StringVar(&registerTickers, "tickers", "", "comma-separated ticker symbols")
	registerCmd.Flags().StringVar(&registerExpression, "expression", "", "expression for the expr strategy")
	registerCmd.Flags().StringVar(&registerBudget, "budget", "", "dollar budget, e.g. 1000.50 (required)")
	registerCmd.Flags().Int64Var(&registerTtl, "ttl", 0, "seconds until expiration (0 = never)")
	registerCmd.MarkFlagRequired("strategy")
	registerCmd.MarkFlagRequired("budget")
}

func runRegister(cmd *cobra.Command, args []string) error {
	request := map[string]any{
		"strategy": registerStrategy,
		"budget":   registerBudget,
	}
	if registerTickers != "" {
		request["tickers"] = strings.Split(registerTickers, ",")
	}
	if registerExpression != "" {
		request["expression"] = registerExpression
	}
	if registerTtl > 0 {
		request["ttlSeconds"] = registerTtl
	}

	var out map[string]any
	if err := callApi("POST", "/algorithms", request, &out); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return printJson(out)
}
