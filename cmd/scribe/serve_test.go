package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/scribe/pkg/serve"
)

func TestServeCommand_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"serve"})
	assert.NoError(t, err)
	assert.NotNil(t, cmd)
	assert.Equal(t, "serve", cmd.Name())
	assert.NotNil(t, cmd.Flags().Lookup("transport"))
}

func TestServeCommand_NDJSONIntegration(t *testing.T) {
	useRoot(t, map[string]string{"main.go": "package main\n"})
	serveTransport = "ndjson"
	t.Cleanup(func() { serveTransport = "stdio" })

	pr, pw := io.Pipe()
	out := &bytes.Buffer{}

	testCmd := &cobra.Command{
		Use:  "serve",
		RunE: runServe,
	}
	testCmd.SetIn(pr)
	testCmd.SetOut(out)
	testCmd.SetErr(io.Discard)
	testCmd.SetArgs([]string{})

	done := make(chan error, 1)
	go func() {
		done <- testCmd.Execute()
	}()

	_, err := pw.Write([]byte(`{"type":"call_tool","payload":{"name":"get_codebase","arguments":{}}}` + "\n"))
	require.NoError(t, err)
	_, err = pw.Write([]byte(`{"type":"close","payload":{}}` + "\n"))
	require.NoError(t, err)
	pw.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve command did not exit")
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var resp serve.Response
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &resp))
	assert.True(t, resp.Success, resp.Error)

	var data serve.CallToolData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "# main.go\n\n```go\npackage main\n```\n\n", data.Content)
}

func TestServeCommand_UnknownTransport(t *testing.T) {
	useRoot(t, nil)
	serveTransport = "carrier-pigeon"
	t.Cleanup(func() { serveTransport = "stdio" })

	err := runServe(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")
}
