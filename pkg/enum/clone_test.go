package enum

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a repository with one commit containing files.
func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	// Local clones go through git-upload-pack.
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		if _, err := exec.LookPath("git"); err != nil {
			t.Skip("git not installed")
		}
	}
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		_, err = wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestCloneRepository_Local(t *testing.T) {
	src := initRepo(t, map[string]string{"main.go": "package main\n"})

	dir, cleanup, err := CloneRepository(context.Background(), src)
	require.NoError(t, err)
	defer cleanup()

	got, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(got))

	cleanup()
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestCloneRepository_InvalidSource(t *testing.T) {
	_, cleanup, err := CloneRepository(context.Background(), filepath.Join(t.TempDir(), "missing.git"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloning")
	cleanup()
}

func TestCloneRepository_ThenEnumerate(t *testing.T) {
	src := initRepo(t, map[string]string{
		"main.go":    "package main\n",
		"lib/lib.go": "package lib\n",
	})

	dir, cleanup, err := CloneRepository(context.Background(), src)
	require.NoError(t, err)
	defer cleanup()

	res, err := NewFilesystemEnumerator(Config{Root: dir}).Enumerate(context.Background())
	require.NoError(t, err)

	var names []string
	for _, r := range res.Records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"lib/lib.go", "main.go"}, names)
}
