package tools

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudflare/ahocorasick"
	"github.com/dlclark/regexp2"
	"github.com/sirupsen/logrus"

	"github.com/praetorian-inc/scribe/pkg/enum"
)

const (
	defaultMaxResults = 200
	maxSearchFileSize = 10 * 1024 * 1024
	regexMatchTimeout = 2 * time.Second
)

// lineMatcher reports whether a line matches a search.
type lineMatcher interface {
	MatchLine(line string) (bool, error)
}

type regexMatcher struct {
	re *regexp2.Regexp
}

func (m regexMatcher) MatchLine(line string) (bool, error) {
	return m.re.MatchString(line)
}

type literalMatcher struct {
	m          *ahocorasick.Matcher
	ignoreCase bool
}

func (m literalMatcher) MatchLine(line string) (bool, error) {
	if m.ignoreCase {
		line = strings.ToLower(line)
	}
	return m.m.Contains([]byte(line)), nil
}

func newLineMatcher(p SearchFilesParams) (lineMatcher, error) {
	switch {
	case p.Pattern != "" && len(p.Literals) > 0:
		return nil, invalid(errors.New("pattern and literals are mutually exclusive"))
	case p.Pattern != "":
		opts := regexp2.RegexOptions(regexp2.RE2)
		if p.IgnoreCase {
			opts |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(p.Pattern, opts)
		if err != nil {
			return nil, invalid(fmt.Errorf("compiling pattern: %w", err))
		}
		re.MatchTimeout = regexMatchTimeout
		return regexMatcher{re: re}, nil
	case len(p.Literals) > 0:
		dict := make([]string, 0, len(p.Literals))
		for _, lit := range p.Literals {
			if lit == "" {
				continue
			}
			if p.IgnoreCase {
				lit = strings.ToLower(lit)
			}
			dict = append(dict, lit)
		}
		if len(dict) == 0 {
			return nil, invalid(errors.New("literals must contain a non-empty string"))
		}
		return literalMatcher{m: ahocorasick.NewStringMatcher(dict), ignoreCase: p.IgnoreCase}, nil
	default:
		return nil, invalid(errors.New("either pattern or literals is required"))
	}
}

func (ts *Toolset) searchFiles(ctx context.Context, p SearchFilesParams) (string, error) {
	abs, err := ts.resolve(p.Path)
	if err != nil {
		return "", err
	}
	matcher, err := newLineMatcher(p)
	if err != nil {
		return "", err
	}
	if p.Include != "" {
		if _, err := filepath.Match(p.Include, ""); err != nil {
			return "", invalid(fmt.Errorf("include: %w", err))
		}
	}
	rules, err := ts.rules()
	if err != nil {
		return "", err
	}
	limit := p.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}

	var results []string
	truncated := false
	errLimit := errors.New("result limit reached")

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			logrus.WithError(err).WithField("path", path).Debug("search skipping unreadable path")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == abs {
			return nil
		}

		rel := ts.rel(path)
		hidden := !ts.opts.IncludeHidden && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden || rules.Match(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() || rules.Match(rel, false) {
			return nil
		}
		if p.Include != "" {
			if ok, _ := filepath.Match(p.Include, d.Name()); !ok {
				return nil
			}
		}

		hits, err := searchFile(path, rel, matcher, limit-len(results))
		if err != nil {
			logrus.WithError(err).WithField("path", rel).Debug("search skipping file")
			return nil
		}
		results = append(results, hits...)
		if len(results) >= limit {
			truncated = true
			return errLimit
		}
		return nil
	})
	if err != nil && !errors.Is(err, errLimit) {
		return "", fmt.Errorf("searching %s: %w", ts.rel(abs), err)
	}

	if len(results) == 0 {
		return "No matches found", nil
	}
	out := strings.Join(results, "\n")
	if truncated {
		out += fmt.Sprintf("\n[results truncated at %d matches]", limit)
	}
	return out, nil
}

// searchFile returns up to limit "rel:line: text" hits from the file at path.
// Binary and oversized files yield no hits.
func searchFile(path, rel string, matcher lineMatcher, limit int) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSearchFileSize {
		return nil, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if enum.IsBinary(content) {
		return nil, nil
	}

	var hits []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxSearchFileSize)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		ok, err := matcher.MatchLine(line)
		if err != nil {
			return hits, fmt.Errorf("line %d: %w", n, err)
		}
		if !ok {
			continue
		}
		hits = append(hits, fmt.Sprintf("%s:%d: %s", rel, n, strings.TrimRight(line, "\r")))
		if len(hits) >= limit {
			break
		}
	}
	return hits, scanner.Err()
}
