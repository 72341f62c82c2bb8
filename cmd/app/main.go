package main

import (
	"flag"
	"log"
	"os"

	"github.com/Akash-repo/service-p/internal/di"
	"github.com/Akash-repo/service-p/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s provider=%s cache=%s", cfg.Environment, cfg.Resolver.Provider, cfg.Cache.Backend)

	app, cleanup, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("kafka: brokers=%v topic=%s dlt=%s", cfg.Kafka.Brokers, cfg.Publisher.Topic, cfg.Publisher.DLTTopic)

	err = app.Run()
	cleanup()
	if err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
