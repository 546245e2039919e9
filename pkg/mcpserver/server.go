// Package mcpserver exposes the tool registry over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/tools"
)

const instructions = `This server turns a local codebase into paginated text for review.

Call get_codebase_size first. If it reports a token warning, narrow the
codebase with a .scribeignore file before continuing. Then call get_codebase
with page: 1 and keep requesting the next page until told you have received
the complete codebase.
`

// Registrar adds tools to an MCP server.
type Registrar interface {
	RegisterMCP(server *mcp.Server)
}

// New builds an MCP server carrying every tool in registrar.
func New(registrar Registrar, version string) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "scribe",
		Title:   "Scribe, a paginated codebase digest for language models",
		Version: version,
	}
	server := mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions})
	registrar.RegisterMCP(server)
	return server
}

// RunStdio serves on stdin and stdout until the client disconnects or ctx ends.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	logrus.Info("serving MCP over stdio")
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx ends.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", addr).Info("serving MCP over HTTP")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listening on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// ListTools connects an in-memory client to server and returns the tools it
// advertises.
func ListTools(ctx context.Context, server *mcp.Server) ([]*mcp.Tool, error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}
	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		return nil, err
	}
	res, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, err
	}
	if err = clientSession.Close(); err != nil {
		return nil, err
	}
	if err = serverSession.Wait(); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

var _ Registrar = (*tools.Registry)(nil)
