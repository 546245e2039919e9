package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/scribe/pkg/ignore"
)

func (ts *Toolset) directoryTree(ctx context.Context, p DirectoryTreeParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p.Path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", p.Path)
	}
	rules, err := ts.rules()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(filepath.Base(abs) + "/\n")
	if err := ts.writeTree(ctx, &b, rules, abs, "", 1, p.MaxDepth); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (ts *Toolset) writeTree(ctx context.Context, b *strings.Builder, rules *ignore.Rules, dir, prefix string, depth, maxDepth int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", ts.rel(dir), err)
	}

	visible := entries[:0]
	for _, e := range entries {
		if !ts.opts.IncludeHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if rules.Match(ts.rel(filepath.Join(dir, e.Name())), e.IsDir()) {
			continue
		}
		visible = append(visible, e)
	}

	for i, e := range visible {
		last := i == len(visible)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}

		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		b.WriteString(prefix + branch + name + "\n")

		if e.IsDir() && (maxDepth <= 0 || depth < maxDepth) {
			if err := ts.writeTree(ctx, b, rules, filepath.Join(dir, e.Name()), prefix+indent, depth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}
