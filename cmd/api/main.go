package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"algopilot/cmd"

	_ "github.com/lib/pq"
)

func main() {
	deps, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go deps.Scheduler.Start(ctx)

	err = deps.ApiHandler.StartApi(8000)
	if err != nil {
		log.Fatal(err)
	}
}
