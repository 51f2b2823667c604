package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/liarsdice/internal/platform/timeouts"
	"github.com/louisbranch/liarsdice/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server implementation.
	serverName = "liarsdice"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Transport values accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config selects the transport and tool dependencies.
type Config struct {
	Transport string
	HTTPAddr  string
	Deps      domain.Deps
}

// NewServer registers every tool and resource on a new MCP server.
func NewServer(deps domain.Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, domain.TournamentRunTool(), domain.TournamentRunHandler(deps))
	mcp.AddTool(server, domain.AgentsListTool(), domain.AgentsListHandler())
	mcp.AddTool(server, domain.LeaderboardTool(), domain.LeaderboardHandler(deps.Store))
	mcp.AddTool(server, domain.RunGetTool(), domain.RunGetHandler(deps.Store))
	server.AddResource(domain.HighScoresResource(), domain.HighScoresResourceHandler(deps.Store))
	return server
}

// Serve runs the server on the configured transport until ctx is done.
func Serve(ctx context.Context, cfg Config) error {
	server := NewServer(cfg.Deps)
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", TransportStdio:
		return serveStdio(ctx, server)
	case TransportHTTP:
		return serveHTTP(ctx, server, cfg.HTTPAddr)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

func serveStdio(ctx context.Context, server *mcp.Server) error {
	err := server.Run(ctx, &mcp.StdioTransport{})
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func serveHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("MCP listening on %s", addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown MCP http server: %w", err)
		}
		return nil
	}
}
