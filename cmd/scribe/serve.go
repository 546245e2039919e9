package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/scribe/pkg/mcpserver"
	"github.com/praetorian-inc/scribe/pkg/serve"
)

var (
	serveTransport string
	serveAddr      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the codebase tools to an agent",
	Long: `Serve the digest and file tools for the configured root.

Transports:
  stdio   MCP over stdin/stdout (default)
  http    MCP streamable HTTP on --addr
  ndjson  one JSON request per line on stdin, one response per line on stdout

The process runs until stdin closes or SIGTERM is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveTransport, "transport", "stdio", "Transport: stdio, http, ndjson")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "Listen address for the http transport")
	serveCmd.Flags().Bool("edit-mode", true, "Register tools that modify files")
	serveCmd.Flags().Bool("exec", false, "Register execute_command")
	serveCmd.Flags().Bool("cache", false, "Cache enumerations between requests")

	bindFlags(v, map[string]string{
		"edit_mode":     "edit-mode",
		"exec.enabled":  "exec",
		"cache.enabled": "cache",
	}, serveCmd)

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Set up signal handling
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	svc, cleanup, err := newService(ctx, "")
	if err != nil {
		return err
	}
	defer cleanup()

	switch serveTransport {
	case "ndjson":
		srv := serve.NewServer(svc.Registry, svc.Root, cmd.InOrStdin(), cmd.OutOrStdout())
		return srv.Run(ctx)
	case "stdio":
		return mcpserver.RunStdio(ctx, mcpserver.New(svc.Registry, version))
	case "http":
		return mcpserver.RunHTTP(ctx, mcpserver.New(svc.Registry, version), serveAddr)
	default:
		return fmt.Errorf("unknown transport %q (want stdio, http or ndjson)", serveTransport)
	}
}
