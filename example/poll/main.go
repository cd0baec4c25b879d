package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Niewiaro/sensegrid/pkg/sensegrid"
)

func main() {
	flow, err := sensegrid.Conf("../../config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	rt, err := flow.Build()
	if err != nil {
		log.Fatalf("build runtime: %v", err)
	}
	if err := rt.Start(); err != nil {
		log.Fatalf("start runtime: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := rt.Shutdown(shutdownCtx); err != nil {
				log.Fatalf("shutdown: %v", err)
			}
			return
		case <-ticker.C:
			for id, snap := range rt.SnapshotAll() {
				if t, ok := snap.Latest.Float("temperature"); ok {
					if d, ok := snap.Delta("temperature"); ok {
						fmt.Printf("%s temperature=%g (%+g)\n", id, t, d)
						continue
					}
					fmt.Printf("%s temperature=%g\n", id, t)
				}
			}
		}
	}
}
