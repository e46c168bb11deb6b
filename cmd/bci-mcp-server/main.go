// Command bci-mcp-server is the container entrypoint: it loads the optional
// user plugin, falls back to the echo tool, and serves MCP over SSE.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"bci-mcp/internal/config"
	"bci-mcp/internal/loader"
	"bci-mcp/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Token == "" {
		log.Println("WARN: MCP_TOKEN not set; endpoints will be open. Set MCP_TOKEN to secure.")
	}

	srv := server.New(cfg)
	outcome, err := server.Bootstrap(srv, loader.New(cfg.PluginDir, cfg.PluginName))
	if err != nil {
		log.Fatalf("plugin error: %v", err)
	}
	log.Printf("INFO: plugin %s (%s), %d tools", cfg.PluginName, outcome, len(srv.Tools()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting MCP SSE server %q on %s\n", srv.Name(), cfg.Addr())
	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}
