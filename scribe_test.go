package scribe

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/scribe/pkg/config"
	"github.com/praetorian-inc/scribe/pkg/tokens"
	"github.com/praetorian-inc/scribe/pkg/tools"
)

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	v := config.NewViper()
	v.Set("root", root)
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_Defaults(t *testing.T) {
	root := t.TempDir()
	svc, err := New(testConfig(t, root), WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)

	assert.Equal(t, root, svc.Root)
	assert.Nil(t, svc.Cache)
	assert.NotNil(t, svc.Engine)
	assert.NotNil(t, svc.Reporter)

	_, ok := svc.Registry.Lookup("write_file")
	assert.True(t, ok, "edit mode is on by default")
	_, ok = svc.Registry.Lookup("execute_command")
	assert.False(t, ok, "execution is off by default")
}

func TestNew_ReadOnly(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.EditMode = false

	svc, err := New(cfg, WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)

	_, err = svc.Registry.Call(context.Background(), "write_file", json.RawMessage(`{"path":"a","content":"b"}`))
	assert.ErrorIs(t, err, tools.ErrEditModeDisabled)
}

func TestDigest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")
	writeFile(t, root, "lib/util.go", "package lib\n")

	svc, err := New(testConfig(t, root), WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)

	res, err := svc.Digest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalPages)
	assert.False(t, res.HasMorePages)
	assert.Equal(t,
		"# lib/util.go\n\n```go\npackage lib\n```\n\n# main.go\n\n```go\npackage main\n```\n\n",
		res.Content)
}

func TestDigest_PagesWithSmallPageSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", strings.Repeat("a", 40))
	writeFile(t, root, "b.txt", strings.Repeat("b", 40))

	cfg := testConfig(t, root)
	cfg.PageSize = 70
	svc, err := New(cfg, WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)

	res, err := svc.Digest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.True(t, res.HasMorePages)
	require.NotNil(t, res.NextPage)
	assert.Equal(t, 2, *res.NextPage)
	assert.Contains(t, res.Content, "# a.txt")
	assert.NotContains(t, res.Content, "# b.txt")
}

func TestSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", strings.Repeat("x", 2000))
	writeFile(t, root, "small.txt", "x")

	cfg := testConfig(t, root)
	cfg.ClaudeTokenLimit = "10"
	svc, err := New(cfg, WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)

	rep, err := svc.Size(context.Background())
	require.NoError(t, err)
	assert.True(t, rep.HasWarning)
	assert.Equal(t, 2, rep.TotalFiles)
	require.NotEmpty(t, rep.Largest)
	assert.Equal(t, "big.txt", rep.Largest[0].Name)
	assert.Contains(t, rep.Content, "Claude token limit exceeded")
}

func TestNew_CacheEnabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\n")

	cfg := testConfig(t, root)
	cfg.Cache.Enabled = true
	svc, err := New(cfg, WithTokenizers(tokens.HeuristicFamilies()))
	require.NoError(t, err)
	require.NotNil(t, svc.Cache)

	ctx := context.Background()
	_, err = svc.Digest(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Digest(ctx, 1)
	require.NoError(t, err)

	hits, _ := svc.Cache.Stats()
	assert.Equal(t, int64(1), hits)
}
