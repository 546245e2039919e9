// Package sandbox keeps caller-supplied paths inside a fixed root directory.
package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is matched by every error returned for a path that would escape the root.
var ErrPathTraversal = errors.New("path traversal is not allowed")

// PathError reports the offending path of a rejected request.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path `%s`: %v", e.Path, ErrPathTraversal)
}

// Is allows errors.Is(err, ErrPathTraversal).
func (e *PathError) Is(target error) bool {
	return target == ErrPathTraversal
}

// ValidateRelativePath rejects paths containing a parent-directory segment,
// either literally or after normalization. Both '/' and '\' count as separators.
func ValidateRelativePath(p string) error {
	slashed := strings.ReplaceAll(p, `\`, "/")
	if hasParentSegment(slashed) {
		return &PathError{Path: p}
	}
	if hasParentSegment(path.Clean("./" + slashed)) {
		return &PathError{Path: p}
	}
	return nil
}

// ResolveRelativePath validates p and joins it onto root. The path is always
// treated as rooted, so an absolute p cannot replace root.
func ResolveRelativePath(p, root string) (string, error) {
	if err := ValidateRelativePath(p); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(strings.ReplaceAll(p, `\`, "/"))
	if !strings.HasPrefix(rel, "."+string(filepath.Separator)) {
		rel = "." + string(filepath.Separator) + rel
	}
	return filepath.Join(root, rel), nil
}

// ResolveInRoot resolves p like ResolveRelativePath and then follows any
// symlinks along the part of the result that already exists. A path whose
// existing prefix resolves outside root, or that passes through a dangling
// symlink, is rejected.
func ResolveInRoot(p, root string) (string, error) {
	abs, err := ResolveRelativePath(p, root)
	if err != nil {
		return "", err
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", root, err)
	}

	for existing := abs; ; {
		real, err := filepath.EvalSymlinks(existing)
		if err == nil {
			if _, err := RelativeTo(realRoot, real); err != nil {
				return "", &PathError{Path: p}
			}
			return abs, nil
		}
		if info, lerr := os.Lstat(existing); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			return "", &PathError{Path: p}
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		existing = parent
	}
}

// RelativeTo returns the slash-separated path of abs relative to root,
// or "." for root itself.
func RelativeTo(root, abs string) (string, error) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", &PathError{Path: abs}
	}
	return rel, nil
}

func hasParentSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
