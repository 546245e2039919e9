// Package scribe turns a codebase into a paginated text digest sized for
// language model context windows.
//
// # Basic Usage
//
// Build a service from configuration and fetch the first page:
//
//	cfg, err := config.FromViper(config.NewViper())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svc, err := scribe.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := svc.Digest(ctx, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(page.Content)
//
// # Size Report
//
// Check the codebase against model token budgets before paging through it:
//
//	rep, err := svc.Size(ctx)
//	if rep.HasWarning {
//	    fmt.Println(rep.Content)
//	}
package scribe

import (
	"context"
	"fmt"

	"github.com/praetorian-inc/scribe/pkg/cache"
	"github.com/praetorian-inc/scribe/pkg/config"
	"github.com/praetorian-inc/scribe/pkg/digest"
	"github.com/praetorian-inc/scribe/pkg/enum"
	"github.com/praetorian-inc/scribe/pkg/report"
	"github.com/praetorian-inc/scribe/pkg/tokens"
	"github.com/praetorian-inc/scribe/pkg/tools"
	"github.com/praetorian-inc/scribe/pkg/types"
)

// Re-export commonly used types so callers can import just this package.
type (
	// FileRecord is one enumerated file in digest form.
	FileRecord = types.FileRecord

	// TokenTotals holds token estimates per model family.
	TokenTotals = types.TokenTotals

	// DigestResult is one requested page of the digest.
	DigestResult = digest.Result

	// SizeReport is the pre-flight size and token report.
	SizeReport = report.SizeReport
)

// Service wires the digest engine, size reporter and tool registry to one root.
type Service struct {
	Root     string
	Engine   *digest.Engine
	Reporter *report.Reporter
	Registry *tools.Registry

	// Cache is nil unless snapshot caching is enabled.
	Cache *cache.Snapshots
}

type serviceOptions struct {
	families *tokens.Families
}

// Option configures a Service.
type Option func(*serviceOptions)

// WithTokenizers replaces the default token counters.
func WithTokenizers(f tokens.Families) Option {
	return func(o *serviceOptions) {
		o.families = &f
	}
}

// New builds a Service from cfg.
//
// By default the service:
//   - Estimates Claude tokens heuristically and GPT tokens with tiktoken
//   - Caches nothing (enable with cache.enabled)
//   - Registers only read-only tools unless edit_mode is set
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	o := &serviceOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.families == nil {
		f := tokens.DefaultFamilies()
		o.families = &f
	}

	root, err := cfg.ResolveRoot()
	if err != nil {
		return nil, err
	}

	base := enum.Config{
		IgnoreFile:    cfg.IgnoreFile,
		IncludeHidden: cfg.IncludeHidden,
		MaxFileSize:   cfg.MaxFileSize,
		Workers:       cfg.Workers,
	}

	svc := &Service{Root: root}
	if cfg.Cache.Enabled {
		svc.Cache = cache.NewSnapshots(cfg.Cache.Size, cfg.Cache.TTL)
		base.Cache = svc.Cache
	}

	sizing := base
	sizing.Tokenizers = o.families
	sizing.OmitContent = true

	svc.Engine = digest.NewEngine(enum.FilesystemSource{Base: base}, cfg.PageSize)
	svc.Reporter = report.NewReporter(enum.FilesystemSource{Base: sizing}, cfg.Limits())

	toolset := tools.NewToolset(tools.Options{
		Root:          root,
		IgnoreFile:    cfg.IgnoreFile,
		IncludeHidden: cfg.IncludeHidden,
		EditMode:      cfg.EditMode,
		ExecEnabled:   cfg.Exec.Enabled,
		ExecTimeout:   cfg.Exec.Timeout,
	}, svc.Engine, svc.Reporter)
	svc.Registry, err = toolset.Registry()
	if err != nil {
		return nil, fmt.Errorf("building tools: %w", err)
	}
	return svc, nil
}

// Digest returns the given 1-based page of the root's digest.
func (s *Service) Digest(ctx context.Context, page int) (*DigestResult, error) {
	return s.Engine.Generate(ctx, s.Root, page, 0)
}

// Size returns the size report for the root.
func (s *Service) Size(ctx context.Context) (*SizeReport, error) {
	return s.Reporter.Generate(ctx, s.Root)
}
