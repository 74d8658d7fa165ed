package main

import (
	"context"
	"log"

	"github.com/pulseops/eventpulse/internal/auth/app/bootstrap"
)

func main() {
	ctx := context.Background()
	runtime, err := bootstrap.NewRuntime(ctx, "configs/authsvc.yaml")
	if err != nil {
		log.Fatalf("bootstrap auth runtime: %v", err)
	}
	if err := runtime.RunAPI(ctx); err != nil {
		log.Fatalf("run auth api: %v", err)
	}
}
