package registry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// ServeStdio runs the registry as an MCP server over stdin and stdout.
// Blocks until the client disconnects or ctx is cancelled.
func ServeStdio(ctx context.Context, r *Registry) error {
	r.log.Info("serving MCP over stdio")
	return r.MCPServer().Run(ctx, &mcp.StdioTransport{})
}

// ServeHTTP returns an http.Handler for the streamable HTTP transport.
func ServeHTTP(r *Registry) http.Handler {
	server := r.MCPServer()
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

// ListenAndServe serves the streamable HTTP transport on addr until ctx is
// cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, r *Registry) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           ServeHTTP(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		r.log.Info("serving MCP over HTTP", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
