package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"aqidash/internal/config"
	"aqidash/internal/mcpserver"
	"aqidash/internal/store"

	"github.com/joho/godotenv"
)

// The MCP server speaks JSON-RPC on stdout, so all logging goes to
// stderr.
func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	logger := log.New(os.Stderr, "aqi-mcp ", log.LstdFlags)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatalf("loading config: %v", err)
		}
	}

	var repo *store.Repo
	if cfg.Database.Path != "" {
		dbClient, err := store.NewClient(cfg.Database.Path,
			store.WithThreads(cfg.Database.Threads),
			store.WithMemoryLimit(cfg.Database.MemoryLimit),
			store.WithTimeout(5*time.Second),
		)
		if err != nil {
			logger.Printf("reading history unavailable: %v", err)
		} else {
			defer dbClient.Close()
			repo = store.NewRepo(dbClient.DB())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := repo.Migrate(ctx); err != nil {
				logger.Printf("reading history unavailable, migration failed: %v", err)
				repo = nil
			}
			cancel()
		}
	}

	srv, err := mcpserver.NewServer(mcpserver.ServerInfo{
		Name:    "aqidash",
		Version: "1.0.0",
	}, cfg, repo)
	if err != nil {
		logger.Fatalf("starting server: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Close(ctx)
	}()

	logger.Println("serving MCP over stdio")
	if err := srv.Start(context.Background()); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
