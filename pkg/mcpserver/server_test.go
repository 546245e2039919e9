package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/scribe/pkg/digest"
	"github.com/praetorian-inc/scribe/pkg/enum"
	"github.com/praetorian-inc/scribe/pkg/report"
	"github.com/praetorian-inc/scribe/pkg/tokens"
	"github.com/praetorian-inc/scribe/pkg/tools"
)

func newTestServer(t *testing.T) (*mcp.Server, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("print('hi')\n"), 0644))

	families := tokens.HeuristicFamilies()
	engine := digest.NewEngine(enum.FilesystemSource{Base: enum.Config{IncludeHidden: true}}, digest.DefaultPageSize)
	reporter := report.NewReporter(enum.FilesystemSource{Base: enum.Config{Tokenizers: &families, OmitContent: true}}, report.DefaultLimits())
	reg, err := tools.NewToolset(tools.Options{Root: root, IncludeHidden: true}, engine, reporter).Registry()
	require.NoError(t, err)
	return New(reg, "test"), root
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })
	return clientSession
}

func TestListTools(t *testing.T) {
	server, _ := newTestServer(t)

	got, err := ListTools(context.Background(), server)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range got {
		names[tool.Name] = true
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.NotNil(t, tool.InputSchema, tool.Name)
	}
	assert.True(t, names["get_codebase"])
	assert.True(t, names["get_codebase_size"])
	assert.True(t, names["read_file"])
	// Edit mode is off in this server.
	assert.False(t, names["write_file"])
	assert.False(t, names["execute_command"])
}

func TestCallTool_GetCodebase(t *testing.T) {
	server, _ := newTestServer(t)
	session := connect(t, server)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "get_codebase",
		Arguments: map[string]any{"page": 1},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "# app.py\n\n```python\nprint('hi')\n```\n\n", text.Text)
}

func TestCallTool_ErrorIsReported(t *testing.T) {
	server, _ := newTestServer(t)
	session := connect(t, server)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "read_file",
		Arguments: map[string]any{"path": "missing.txt"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestRunHTTP_StopsOnCancel(t *testing.T) {
	server, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunHTTP(ctx, server, "127.0.0.1:0") }()
	cancel()

	assert.NoError(t, <-done)
}
