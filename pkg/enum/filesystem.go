package enum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/scribe/pkg/ignore"
	"github.com/praetorian-inc/scribe/pkg/types"
)

// FilesystemEnumerator enumerates files from a filesystem directory.
type FilesystemEnumerator struct {
	config Config
}

// NewFilesystemEnumerator creates a new filesystem enumerator.
func NewFilesystemEnumerator(config Config) *FilesystemEnumerator {
	return &FilesystemEnumerator{config: config}
}

// fileEntry holds metadata collected during the walk phase.
type fileEntry struct {
	path    string
	rel     string
	size    int64
	modTime time.Time
}

// Enumerate walks the tree and returns records in walk order.
// Phase 1: walk the directory tree and collect eligible files (sequential, lexical order).
// Phase 2: read and render files in parallel, each into its own slot.
func (e *FilesystemEnumerator) Enumerate(ctx context.Context) (*Result, error) {
	root := e.config.Root
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	rules, err := ignore.Resolve(root, e.config.IgnoreFile, e.config.ExtraIgnores...)
	if err != nil {
		return nil, err
	}

	files, skipped, err := e.walk(ctx, rules)
	if err != nil {
		return nil, err
	}

	var key string
	if e.config.Cache != nil {
		key = e.cacheKey(rules, files)
		if res, ok := e.config.Cache.Get(key); ok {
			logrus.WithField("root", root).Debug("enumeration served from cache")
			return res, nil
		}
	}

	records, unreadable, err := e.readAll(ctx, files)
	if err != nil {
		return nil, err
	}

	res := &Result{Records: records, Skipped: append(skipped, unreadable...), Rules: rules}
	for _, r := range records {
		res.Totals = res.Totals.Add(r.Tokens)
	}
	if e.config.Cache != nil {
		e.config.Cache.Add(key, res)
	}
	return res, nil
}

func (e *FilesystemEnumerator) walk(ctx context.Context, rules *ignore.Rules) ([]fileEntry, []string, error) {
	root := e.config.Root
	var files []fileEntry
	var skipped []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logrus.WithError(err).WithField("path", path).Warn("skipping unreadable path")
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if (!e.config.IncludeHidden && isHidden(d.Name())) || rules.Match(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !e.config.IncludeHidden && isHidden(d.Name()) {
			return nil
		}
		if rules.Match(rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logrus.WithError(err).WithField("path", path).Warn("skipping file without info")
			return nil
		}
		if e.config.MaxFileSize > 0 && info.Size() > e.config.MaxFileSize {
			skipped = append(skipped, rel)
			return nil
		}

		files = append(files, fileEntry{path: path, rel: rel, size: info.Size(), modTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return files, skipped, nil
}

func (e *FilesystemEnumerator) readAll(ctx context.Context, files []fileEntry) ([]types.FileRecord, []string, error) {
	numReaders := e.config.Workers
	if numReaders <= 0 {
		numReaders = runtime.NumCPU()
	}

	records := make([]types.FileRecord, len(files))
	read := make([]bool, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numReaders)

	for i := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rec, err := e.processFile(files[i])
			if err != nil {
				logrus.WithError(err).WithField("path", files[i].rel).Warn("skipping unreadable file")
				return nil
			}
			records[i] = rec
			read[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Compact in walk order so output stays deterministic.
	var unreadable []string
	out := records[:0]
	for i, rec := range records {
		if !read[i] {
			unreadable = append(unreadable, files[i].rel)
			continue
		}
		out = append(out, rec)
	}
	return out, unreadable, nil
}

// processFile reads and renders a single file.
func (e *FilesystemEnumerator) processFile(f fileEntry) (types.FileRecord, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return types.FileRecord{}, fmt.Errorf("reading %s: %w", f.rel, err)
	}

	rec := types.NewFileRecord(f.rel, Render(f.rel, content), int64(len(content)))
	if e.config.Tokenizers != nil {
		rec.Tokens = e.config.Tokenizers.Count(rec.Content)
	}
	if e.config.OmitContent {
		rec.Content = ""
	}
	return rec, nil
}

// cacheKey identifies the tree by root, rules, output mode and the
// (path, size, mtime) of every walked file.
func (e *FilesystemEnumerator) cacheKey(rules *ignore.Rules, files []fileEntry) string {
	h := sha256.New()
	for _, f := range files {
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", f.rel, f.size, f.modTime.UnixNano())
	}
	mode := fmt.Sprintf("omit=%t tokens=%t max=%d", e.config.OmitContent, e.config.Tokenizers != nil, e.config.MaxFileSize)
	return strings.Join([]string{e.config.Root, rules.Hash(), mode, hex.EncodeToString(h.Sum(nil))}, "\x00")
}

// isHidden checks if a filename is hidden (starts with .).
// The special entries "." and ".." are NOT considered hidden.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
