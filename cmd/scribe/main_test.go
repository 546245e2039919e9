package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/scribe/pkg/config"
)

// useRoot points the loaded configuration at a fresh temporary codebase.
func useRoot(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	c, err := config.FromViper(config.NewViper())
	require.NoError(t, err)
	c.Root = root
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
	return root
}
