package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List live algorithms",
	RunE:  runList,
}

var getCmd = &cobra.Command{
	Use:   "get <algorithm-id>",
	Short: "Show one algorithm",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var holdingsCmd = &cobra.Command{
	Use:   "holdings [algorithm-id]",
	Short: "Show open positions, fleet-wide or for one algorithm",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHoldings,
}

var holdingsTicker string

var budgetCmd = &cobra.Command{
	Use:   "budget <algorithm-id>",
	Short: "Show an algorithm's budget snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudget,
}

var ordersCmd = &cobra.Command{
	Use:   "orders <algorithm-id>",
	Short: "Show an algorithm's trade orders",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrders,
}

func init() {
	holdingsCmd.Flags().StringVar(&holdingsTicker, "ticker", "", "only show positions in this ticker")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(holdingsCmd)
	rootCmd.AddCommand(budgetCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	var out map[string]any
	if err := callApi("GET", "/algorithms", nil, &out); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return printJson(out)
}

func runGet(cmd *cobra.Command, args []string) error {
	var out map[string]any
	if err := callApi("GET", "/algorithms/"+args[0], nil, &out); err != nil {
		return fmt.Errorf("get: %w", err)
	}
	return printJson(out)
}

func runHoldings(cmd *cobra.Command, args []string) error {
	path := "/holdings"
	if len(args) == 1 {
		path = "/algorithms/" + args[0] + "/holdings"
	}
	if holdingsTicker != "" {
		path += "?ticker=" + url.QueryEscape(holdingsTicker)
	}

	var out map[string]any
	if err := callApi("GET", path, nil, &out); err != nil {
		return fmt.Errorf("holdings: %w", err)
	}
	return printJson(out)
}

func runBudget(cmd *cobra.Command, args []string) error {
	var out map[string]any
	if err := callApi("GET", "/algorithms/"+args[0]+"/budget", nil, &out); err != nil {
		return fmt.Errorf("budget: %w", err)
	}
	return printJson(out)
}

func runOrders(cmd *cobra.Command, args []string) error {
	var out map[string]any
	if err := callApi("GET", "/algorithms/"+args[0]+"/orders", nil, &out); err != nil {
		return fmt.Errorf("orders: %w", err)
	}
	return printJson(out)
}
