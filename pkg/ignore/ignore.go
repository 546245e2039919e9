// Package ignore decides which ignore rules govern a scanned root.
//
// A project-specific .scribeignore replaces .gitignore entirely when present.
// The embedded default patterns and the ignore file names themselves are
// layered on top regardless of which base file was chosen.
package ignore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

const (
	// ProjectFile is the project-specific ignore file.
	ProjectFile = ".scribeignore"

	// GitFile is the generic fallback ignore file.
	GitFile = ".gitignore"
)

// Rules is a resolved ignore rule set for one root.
type Rules struct {
	// BaseFile is the name of the chosen ignore file, or "" when none exists.
	BaseFile string

	// BasePatterns are the lines read from BaseFile.
	BasePatterns []string

	// Supplemental are the always-applied patterns.
	Supplemental []string

	matcher *gitignore.GitIgnore
}

// Resolve picks the base ignore file for root and compiles the full rule set.
// explicit names an ignore file to prefer when it exists; extra patterns are
// appended to the supplemental set.
func Resolve(root, explicit string, extra ...string) (*Rules, error) {
	defs, err := LoadDefaults()
	if err != nil {
		return nil, err
	}

	candidates := []string{ProjectFile, GitFile}
	if explicit != "" {
		candidates = append([]string{explicit}, candidates...)
	}

	r := &Rules{}
	for _, name := range candidates {
		lines, err := readLines(filepath.Join(root, name))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading ignore file %s: %w", name, err)
		}
		r.BaseFile = name
		r.BasePatterns = lines
		break
	}

	r.Supplemental = append(r.Supplemental, defs.Patterns...)
	r.Supplemental = append(r.Supplemental, defs.IgnoreFiles...)
	if explicit != "" {
		r.Supplemental = append(r.Supplemental, explicit)
	}
	r.Supplemental = append(r.Supplemental, extra...)

	all := make([]string, 0, len(r.BasePatterns)+len(r.Supplemental))
	all = append(all, r.BasePatterns...)
	all = append(all, r.Supplemental...)
	r.matcher = gitignore.CompileIgnoreLines(all...)
	return r, nil
}

// Match reports whether the slash-separated relPath is ignored.
func (r *Rules) Match(relPath string, isDir bool) bool {
	if r == nil || r.matcher == nil {
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if r.matcher.MatchesPath(relPath) {
		return true
	}
	// Directory-only patterns ("build/") need the trailing slash to match.
	return isDir && r.matcher.MatchesPath(relPath+"/")
}

// Hash returns a stable digest of the rule set.
func (r *Rules) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "base=%s\n", r.BaseFile)
	for _, p := range r.BasePatterns {
		fmt.Fprintf(h, "b:%s\n", p)
	}
	for _, p := range r.Supplemental {
		fmt.Fprintf(h, "s:%s\n", p)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		lines = append(lines, strings.TrimRight(line, " \t"))
	}
	return lines, nil
}
