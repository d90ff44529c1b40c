//go:build lambda

// Command lambda serves route optimization from an AWS Lambda function URL.
// The catalog comes from TARKOVBUDDY_CATALOG when set, otherwise the API.
package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Oddey86/TarkovBuddy/internal/catalog"
	"github.com/Oddey86/TarkovBuddy/internal/config"
	"github.com/Oddey86/TarkovBuddy/internal/metrics"
	"github.com/Oddey86/TarkovBuddy/internal/server"
)

func main() {
	cfg, err := config.Load(os.Getenv("TARKOVBUDDY_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	client := catalog.NewClient(cfg.API.URL, cfg.API.Timeout)
	provider := catalog.NewProvider(client, os.Getenv("TARKOVBUDDY_CATALOG"), cfg.API.CacheTTL)

	srv, err := server.New(provider, metrics.NewCollector(), cfg.Server.CacheSize)
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	lambda.Start(srv.HandleFunctionURL)
}
