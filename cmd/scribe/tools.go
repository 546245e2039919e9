package main

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/scribe/pkg/mcpserver"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Long:  "Print the name, description and input schema of every enabled tool as JSON",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

// toolsInfo is the JSON document printed by the tools command.
type toolsInfo struct {
	Version string      `json:"version"`
	Tools   []*mcp.Tool `json:"tools"`
}

func runTools(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	svc, cleanup, err := newService(ctx, "")
	if err != nil {
		return err
	}
	defer cleanup()

	list, err := mcpserver.ListTools(ctx, mcpserver.New(svc.Registry, version))
	if err != nil {
		return fmt.Errorf("listing tools: %w", err)
	}
	j, err := json.MarshalIndent(toolsInfo{Version: version, Tools: list}, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
	return err
}
