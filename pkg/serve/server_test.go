package serve

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/scribe/pkg/digest"
	"github.com/praetorian-inc/scribe/pkg/enum"
	"github.com/praetorian-inc/scribe/pkg/report"
	"github.com/praetorian-inc/scribe/pkg/tokens"
	"github.com/praetorian-inc/scribe/pkg/tools"
)

func newTestToolbox(t *testing.T, editMode bool) (*tools.Registry, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n"), 0644))

	families := tokens.HeuristicFamilies()
	engine := digest.NewEngine(enum.FilesystemSource{Base: enum.Config{IncludeHidden: true}}, digest.DefaultPageSize)
	reporter := report.NewReporter(enum.FilesystemSource{Base: enum.Config{Tokenizers: &families, OmitContent: true}}, report.DefaultLimits())
	reg, err := tools.NewToolset(tools.Options{Root: root, IncludeHidden: true, EditMode: editMode}, engine, reporter).Registry()
	require.NoError(t, err)
	return reg, root
}

func runLines(t *testing.T, toolbox Toolbox, input string) []Response {
	t.Helper()
	out := &bytes.Buffer{}
	srv := NewServer(toolbox, "/repo", strings.NewReader(input), out)
	require.NoError(t, srv.Run(context.Background())) // Should exit cleanly on EOF

	var resps []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		resps = append(resps, resp)
	}
	return resps
}

func TestServer_SendsReadyOnStart(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	in := strings.NewReader("")
	out := &bytes.Buffer{}

	srv := NewServer(reg, "/repo", in, out)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately to exit after ready

	_ = srv.Run(ctx)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.NotEmpty(t, lines)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var ready ReadyData
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Equal(t, Version, ready.Version)
	assert.Equal(t, "/repo", ready.Root)
}

func TestServer_ListTools(t *testing.T) {
	reg, _ := newTestToolbox(t, true)

	resps := runLines(t, reg, `{"type":"list_tools"}`+"\n")
	require.Len(t, resps, 2) // ready + list_tools

	assert.True(t, resps[1].Success)
	assert.Equal(t, "list_tools", resps[1].Type)

	var data struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resps[1].Data, &data))
	require.Len(t, data.Tools, len(reg.Definitions()))
	assert.Equal(t, "get_codebase_size", data.Tools[0].Name)
	assert.Equal(t, "get_codebase", data.Tools[1].Name)
	assert.Contains(t, string(data.Tools[1].InputSchema), `"page"`)
}

func TestServer_CallTool(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	resps := runLines(t, reg, `{"type":"call_tool","payload":{"name":"get_codebase","arguments":{"page":1}}}`+"\n")
	require.Len(t, resps, 2)

	assert.True(t, resps[1].Success)
	assert.Equal(t, "call_tool", resps[1].Type)
	assert.Empty(t, resps[1].ErrorKind)

	var data CallToolData
	require.NoError(t, json.Unmarshal(resps[1].Data, &data))
	assert.Equal(t, "get_codebase", data.Name)
	assert.Equal(t, "# main.go\n\n```go\npackage main\n```\n\n", data.Content)
}

func TestServer_CallToolErrorKinds(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	tests := []struct {
		name    string
		request string
		kind    string
	}{
		{
			name:    "schema violation",
			request: `{"type":"call_tool","payload":{"name":"get_codebase","arguments":{"page":"two"}}}`,
			kind:    ErrorKindValidation,
		},
		{
			name:    "path escapes root",
			request: `{"type":"call_tool","payload":{"name":"read_file","arguments":{"path":"../outside"}}}`,
			kind:    ErrorKindValidation,
		},
		{
			name:    "missing tool name",
			request: `{"type":"call_tool","payload":{"arguments":{}}}`,
			kind:    ErrorKindValidation,
		},
		{
			name:    "unknown tool",
			request: `{"type":"call_tool","payload":{"name":"launch_rockets"}}`,
			kind:    ErrorKindUnknownTool,
		},
		{
			name:    "mutating tool outside edit mode",
			request: `{"type":"call_tool","payload":{"name":"write_file","arguments":{"path":"a.txt","content":"x"}}}`,
			kind:    ErrorKindDisabled,
		},
		{
			name:    "execution failure",
			request: `{"type":"call_tool","payload":{"name":"read_file","arguments":{"path":"missing.txt"}}}`,
			kind:    ErrorKindExecution,
		},
		{
			name:    "payload is not an object",
			request: `{"type":"call_tool","payload":[1,2]}`,
			kind:    ErrorKindDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resps := runLines(t, reg, tt.request+"\n")
			require.Len(t, resps, 2)
			assert.False(t, resps[1].Success)
			assert.Equal(t, "call_tool", resps[1].Type)
			assert.Equal(t, tt.kind, resps[1].ErrorKind)
			assert.NotEmpty(t, resps[1].Error)
		})
	}
}

func TestServer_GracefulShutdownOnContext(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	// Slow reader that blocks
	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	srv := NewServer(reg, "", pr, out)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() {
		done <- srv.Run(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	cancel()
	pw.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServer_Close(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	input := `{"type":"close"}` + "\n" + `{"type":"list_tools"}` + "\n"
	resps := runLines(t, reg, input)

	// Only ready, nothing after close
	require.Len(t, resps, 1)
	assert.Equal(t, "ready", resps[0].Type)
}

func TestServer_UnknownCommand(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	resps := runLines(t, reg, `{"type":"scan"}`+"\n")
	require.Len(t, resps, 2)

	assert.False(t, resps[1].Success)
	assert.Equal(t, "scan", resps[1].Type)
	assert.Equal(t, ErrorKindUnknownRequest, resps[1].ErrorKind)
	assert.Contains(t, resps[1].Error, "unknown request type")
}

func TestServer_MalformedJSON(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	resps := runLines(t, reg, "{not json\n")
	require.Len(t, resps, 2)

	assert.False(t, resps[1].Success)
	assert.Equal(t, "decode", resps[1].Type)
	assert.Equal(t, ErrorKindDecode, resps[1].ErrorKind)
}

func TestServer_MultipleRequests(t *testing.T) {
	reg, _ := newTestToolbox(t, false)

	input := strings.Join([]string{
		`{"type":"call_tool","payload":{"name":"list_directory","arguments":{}}}`,
		`{"type":"call_tool","payload":{"name":"get_codebase_size","arguments":{}}}`,
		`{"type":"call_tool","payload":{"name":"get_codebase","arguments":{"page":2}}}`,
	}, "\n") + "\n"
	resps := runLines(t, reg, input)
	require.Len(t, resps, 4)

	for _, resp := range resps[1:] {
		assert.True(t, resp.Success, resp.Error)
	}

	var list CallToolData
	require.NoError(t, json.Unmarshal(resps[1].Data, &list))
	assert.Equal(t, "[FILE] main.go", list.Content)

	var size CallToolData
	require.NoError(t, json.Unmarshal(resps[2].Data, &size))
	assert.Contains(t, size.Content, "# Codebase Size Report")

	var beyond CallToolData
	require.NoError(t, json.Unmarshal(resps[3].Data, &beyond))
	assert.Equal(t, digest.LastDirective(2), beyond.Content)
}
