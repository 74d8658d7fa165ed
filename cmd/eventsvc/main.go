package main

import (
	"context"
	"log"

	"github.com/pulseops/eventpulse/internal/event/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/eventsvc.yaml")
	if err != nil {
		log.Fatalf("bootstrap event runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run event api: %v", err)
	}
}
