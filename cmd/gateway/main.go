package main

import (
	"context"
	"log"

	"github.com/pulseops/eventpulse/internal/gateway/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/gateway.yaml")
	if err != nil {
		log.Fatalf("bootstrap gateway runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run gateway: %v", err)
	}
}
