package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const maxReadBytes = 32 * 1024 * 1024

func (ts *Toolset) readFile(_ context.Context, p ReadFileParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", p.Path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, maxReadBytes))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Path, err)
	}
	return string(b), nil
}

func (ts *Toolset) readMultipleFiles(ctx context.Context, p ReadMultipleFilesParams) (string, error) {
	parts := make([]string, 0, len(p.Paths))
	for _, path := range p.Paths {
		content, err := ts.readFile(ctx, ReadFileParams{Path: path})
		if err != nil {
			parts = append(parts, fmt.Sprintf("%s: Error - %v", path, err))
			continue
		}
		parts = append(parts, path+":\n"+content)
	}
	return strings.Join(parts, "\n---\n"), nil
}

func (ts *Toolset) writeFile(_ context.Context, p WriteFileParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("creating parent of %s: %w", p.Path, err)
	}
	if err := os.WriteFile(abs, []byte(p.Content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", p.Path, err)
	}
	return fmt.Sprintf("Successfully wrote to %s", p.Path), nil
}

func (ts *Toolset) editFile(_ context.Context, p EditFileParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	if len(p.Edits) == 0 {
		return "", invalid(errors.New("at least one edit is required"))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Path, err)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Path, err)
	}

	content, err := applyEdits(string(raw), p.Edits)
	if err != nil {
		return "", fmt.Errorf("editing %s: %w", p.Path, err)
	}
	if p.DryRun {
		return fmt.Sprintf("Dry run: %d edit(s) would apply to %s", len(p.Edits), p.Path), nil
	}
	if err := os.WriteFile(abs, []byte(content), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("writing %s: %w", p.Path, err)
	}
	return fmt.Sprintf("Applied %d edit(s) to %s", len(p.Edits), p.Path), nil
}

// applyEdits replaces each OldText, which must occur exactly once at the time
// it is applied.
func applyEdits(content string, edits []EditOperation) (string, error) {
	for i, e := range edits {
		if e.OldText == "" {
			return "", invalid(fmt.Errorf("edit %d: oldText is empty", i+1))
		}
		switch n := strings.Count(content, e.OldText); n {
		case 0:
			return "", fmt.Errorf("edit %d: oldText not found", i+1)
		case 1:
			content = strings.Replace(content, e.OldText, e.NewText, 1)
		default:
			return "", fmt.Errorf("edit %d: oldText matches %d locations, it must be unique", i+1, n)
		}
	}
	return content, nil
}

func (ts *Toolset) createDirectory(_ context.Context, p CreateDirectoryParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", p.Path, err)
	}
	return fmt.Sprintf("Successfully created directory %s", p.Path), nil
}

func (ts *Toolset) listDirectory(_ context.Context, p ListDirectoryParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", p.Path, err)
	}
	if len(entries) == 0 {
		return fmt.Sprintf("Directory %s is empty", ts.rel(abs)), nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		kind := "[FILE]"
		if e.IsDir() {
			kind = "[DIR]"
		}
		lines = append(lines, kind+" "+e.Name())
	}
	return strings.Join(lines, "\n"), nil
}

func (ts *Toolset) moveFile(_ context.Context, p MoveFileParams) (string, error) {
	src, err := ts.resolve(p.Source)
	if err != nil {
		return "", err
	}
	dst, err := ts.resolve(p.Destination)
	if err != nil {
		return "", err
	}
	if src == ts.opts.Root || dst == ts.opts.Root {
		return "", invalid(errors.New("the root directory cannot be moved"))
	}

	if _, err := os.Lstat(src); err != nil {
		return "", fmt.Errorf("moving %s: %w", p.Source, err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return "", fmt.Errorf("moving %s: destination %s already exists", p.Source, p.Destination)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking %s: %w", p.Destination, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("creating parent of %s: %w", p.Destination, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("moving %s: %w", p.Source, err)
	}
	return fmt.Sprintf("Successfully moved %s to %s", p.Source, p.Destination), nil
}

func (ts *Toolset) deleteFile(_ context.Context, p DeleteFileParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	if abs == ts.opts.Root {
		return "", invalid(errors.New("the root directory cannot be deleted"))
	}

	info, err := os.Lstat(abs)
	if err != nil {
		return "", fmt.Errorf("deleting %s: %w", p.Path, err)
	}
	if info.IsDir() {
		if !p.Recursive {
			if err := os.Remove(abs); err != nil {
				return "", fmt.Errorf("deleting %s: %w (set recursive to delete a non-empty directory)", p.Path, err)
			}
			return fmt.Sprintf("Successfully deleted directory %s", p.Path), nil
		}
		if err := os.RemoveAll(abs); err != nil {
			return "", fmt.Errorf("deleting %s: %w", p.Path, err)
		}
		return fmt.Sprintf("Successfully deleted directory %s and its contents", p.Path), nil
	}

	if err := os.Remove(abs); err != nil {
		return "", fmt.Errorf("deleting %s: %w", p.Path, err)
	}
	return fmt.Sprintf("Successfully deleted %s", p.Path), nil
}

func (ts *Toolset) getFileInfo(_ context.Context, p GetFileInfoParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return "", fmt.Errorf("inspecting %s: %w", p.Path, err)
	}

	kind := "file"
	switch {
	case info.IsDir():
		kind = "directory"
	case info.Mode()&fs.ModeSymlink != 0:
		kind = "symlink"
	case !info.Mode().IsRegular():
		kind = "other"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "path: %s\n", ts.rel(abs))
	fmt.Fprintf(&b, "type: %s\n", kind)
	fmt.Fprintf(&b, "size: %d bytes (%s)\n", info.Size(), humanize.IBytes(uint64(info.Size())))
	fmt.Fprintf(&b, "permissions: %s\n", info.Mode().Perm())
	fmt.Fprintf(&b, "modified: %s\n", info.ModTime().UTC().Format(time.RFC3339))
	return b.String(), nil
}
