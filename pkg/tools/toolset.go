package tools

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/praetorian-inc/scribe/pkg/digest"
	"github.com/praetorian-inc/scribe/pkg/ignore"
	"github.com/praetorian-inc/scribe/pkg/report"
	"github.com/praetorian-inc/scribe/pkg/sandbox"
)

// Digester produces pages of a codebase digest.
type Digester interface {
	Generate(ctx context.Context, root string, page, capacity int) (*digest.Result, error)
}

// SizeReporter produces the pre-flight size report of a codebase.
type SizeReporter interface {
	Generate(ctx context.Context, root string) (*report.SizeReport, error)
}

// Options configure a Toolset.
type Options struct {
	// Root is the absolute directory every path argument is resolved against.
	Root string

	// IgnoreFile optionally names a preferred ignore file.
	IgnoreFile string

	// IncludeHidden lets tree and search tools descend into dot entries.
	IncludeHidden bool

	// EditMode registers the mutating tools.
	EditMode bool

	// ExecEnabled registers execute_command.
	ExecEnabled bool

	// ExecTimeout bounds a single command.
	ExecTimeout time.Duration
}

// Toolset implements every tool against one root.
type Toolset struct {
	opts     Options
	digester Digester
	sizer    SizeReporter
}

// NewToolset creates a toolset. digester and sizer back the codebase tools.
func NewToolset(opts Options, digester Digester, sizer SizeReporter) *Toolset {
	opts.Root = filepath.Clean(opts.Root)
	if opts.ExecTimeout <= 0 {
		opts.ExecTimeout = 60 * time.Second
	}
	return &Toolset{opts: opts, digester: digester, sizer: sizer}
}

// Registry builds the registry of tools enabled by the options.
func (ts *Toolset) Registry() (*Registry, error) {
	r := NewRegistry()

	var errs []error
	add := func(t *Tool, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		switch {
		case t.Name == "execute_command" && !ts.opts.ExecEnabled:
			r.Disable(t.Name, ErrExecDisabled)
		case t.Mutating && !ts.opts.EditMode:
			r.Disable(t.Name, ErrEditModeDisabled)
		default:
			r.Add(t)
		}
	}

	add(Define("get_codebase_size", descGetCodebaseSize, false, ts.getCodebaseSize))
	add(Define("get_codebase", descGetCodebase, false, ts.getCodebase))
	add(Define("read_file", descReadFile, false, ts.readFile))
	add(Define("read_multiple_files", descReadMultipleFiles, false, ts.readMultipleFiles))
	add(Define("write_file", descWriteFile, true, ts.writeFile))
	add(Define("edit_file", descEditFile, true, ts.editFile))
	add(Define("create_directory", descCreateDirectory, true, ts.createDirectory))
	add(Define("list_directory", descListDirectory, false, ts.listDirectory))
	add(Define("directory_tree", descDirectoryTree, false, ts.directoryTree))
	add(Define("move_file", descMoveFile, true, ts.moveFile))
	add(Define("delete_file", descDeleteFile, true, ts.deleteFile))
	add(Define("get_file_info", descGetFileInfo, false, ts.getFileInfo))
	add(Define("search_files", descSearchFiles, false, ts.searchFiles))
	add(Define("execute_command", descExecuteCommand, true, ts.executeCommand))

	if len(errs) > 0 {
		return nil, fmt.Errorf("defining tools: %w", errors.Join(errs...))
	}
	return r, nil
}

// resolve maps a caller path onto the root, refusing paths that leave it
// lexically or through a symlink. An empty path is the root itself.
func (ts *Toolset) resolve(p string) (string, error) {
	if p == "" {
		p = "."
	}
	abs, err := sandbox.ResolveInRoot(p, ts.opts.Root)
	if errors.Is(err, sandbox.ErrPathTraversal) {
		return "", invalid(err)
	}
	if err != nil {
		return "", err
	}
	return abs, nil
}

// rel returns the slash-separated path of abs relative to the root.
func (ts *Toolset) rel(abs string) string {
	rel, err := sandbox.RelativeTo(ts.opts.Root, abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return rel
}

func (ts *Toolset) rules() (*ignore.Rules, error) {
	return ignore.Resolve(ts.opts.Root, ts.opts.IgnoreFile)
}
