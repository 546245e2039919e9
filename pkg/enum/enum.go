package enum

import (
	"context"

	"github.com/praetorian-inc/scribe/pkg/ignore"
	"github.com/praetorian-inc/scribe/pkg/tokens"
	"github.com/praetorian-inc/scribe/pkg/types"
)

// Enumerator produces the ordered file records of a source.
type Enumerator interface {
	// Enumerate returns every eligible file in a deterministic order.
	Enumerate(ctx context.Context) (*Result, error)
}

// Result is the output of one enumeration.
type Result struct {
	// Records in walk order.
	Records []types.FileRecord

	// Totals sums the per-record token estimates.
	Totals types.TokenTotals

	// Skipped lists files left out for exceeding MaxFileSize, followed by
	// files that could not be read.
	Skipped []string

	// Rules is the ignore rule set that was applied.
	Rules *ignore.Rules
}

// Config for enumeration.
type Config struct {
	// Root is the starting directory.
	Root string

	// IgnoreFile optionally names an ignore file preferred over the defaults.
	IgnoreFile string

	// ExtraIgnores are appended to the always-applied patterns.
	ExtraIgnores []string

	// IncludeHidden includes files and directories starting with '.'.
	IncludeHidden bool

	// MaxFileSize is the largest file read, in bytes (0 = no limit).
	MaxFileSize int64

	// Workers bounds concurrent file reads (0 = runtime.NumCPU()).
	Workers int

	// Tokenizers enables per-record token estimates when non-nil.
	Tokenizers *tokens.Families

	// OmitContent drops rendered content once sizes and tokens are known.
	OmitContent bool

	// Cache optionally memoizes records for an unchanged tree.
	Cache RecordCache
}

// RecordCache stores enumerations keyed by root, rules and tree fingerprint.
type RecordCache interface {
	Get(key string) (*Result, bool)
	Add(key string, res *Result)
}

// Source loads the enumeration of a root on demand.
type Source interface {
	Load(ctx context.Context, root string) (*Result, error)
}

// FilesystemSource enumerates any root from disk using a shared base config.
type FilesystemSource struct {
	Base Config
}

// Load enumerates root with the base config.
func (s FilesystemSource) Load(ctx context.Context, root string) (*Result, error) {
	cfg := s.Base
	cfg.Root = root
	return NewFilesystemEnumerator(cfg).Enumerate(ctx)
}
