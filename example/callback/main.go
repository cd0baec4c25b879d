package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/Niewiaro/sensegrid/pkg/sensegrid"
)

func main() {
	flow, err := sensegrid.Conf("../../config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = flow.Ingest(
		sensegrid.IngestNotify(func(deviceID string) {
			fmt.Printf("new device: %s\n", deviceID)
		}),
	).Run(ctx)
	if err != nil && err != context.Canceled {
		log.Fatalf("hub exited: %v", err)
	}
}
