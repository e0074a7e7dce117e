package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"steadyview/internal/engine"
	"steadyview/internal/logging"
	"steadyview/source"
	"steadyview/source/kafka"

	_ "steadyview/consumer/stdout"
)

func main() {
	logging.InitFromEnv()

	cfg := engine.Config{
		HealthPort:  7070,
		MetricsPort: 9100,
		ProfileYml:  "profile.yml", // optional
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	source.Register("sarama", func() source.Adapter { return &kafka.SaramaDriver{} })

	e, err := engine.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := e.Run(ctx); err != nil {
		log.Fatalf("engine: %v", err)
	}
}
