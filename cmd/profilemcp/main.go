package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"profilemcp/aggregator"
	"profilemcp/api"
	"profilemcp/cache"
	"profilemcp/config"
	"profilemcp/extractor"
	"profilemcp/fetcher"
	"profilemcp/mcp"
	"profilemcp/profile"
	"profilemcp/search"
)

func main() {
	// =========
	// Config
	// =========
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// =========
	// Logging
	// =========
	logger, err := newLogger(cfg.ServerMode)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	// =========
	// Core components
	// =========
	pageFetcher := fetcher.NewFetcher(cfg.HTTPTimeout, cfg.UserAgent, logger)
	contentExtractor := extractor.New(logger)
	store := cache.New(cfg.CacheTTL)

	agg := aggregator.New(cfg.Sources, pageFetcher, contentExtractor, store, logger)
	engine := search.NewEngine(agg, cfg.SnippetWidth, logger)
	svc := profile.NewService(cfg, agg, engine, logger)

	// =========
	// Serve
	// =========
	switch cfg.ServerMode {
	case "http":
		server := api.NewServer(svc, cfg.HTTPAddr, logger)
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	case "stdio":
		server := mcp.NewServer(svc, logger)
		if err := server.Run(context.Background()); err != nil {
			logger.Fatal("MCP server failed", zap.Error(err))
		}
	default:
		logger.Fatal("unknown SERVER_MODE", zap.String("mode", cfg.ServerMode))
	}
}

// newLogger keeps stdout clean in stdio mode: the transport owns stdout,
// so logs go to stderr.
func newLogger(mode string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if mode == "stdio" {
		zcfg.OutputPaths = []string{"stderr"}
	}
	return zcfg.Build()
}
