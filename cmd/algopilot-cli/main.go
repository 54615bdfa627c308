package main

import (
	"os"

	"algopilot/cmd/algopilot-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
