package core

import (
	"context"
	"fmt"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/fileset"
	"github.com/huangsam/stylemetrics/internal/pattern"
	"github.com/huangsam/stylemetrics/internal/probe"
	"github.com/huangsam/stylemetrics/schema"
	"golang.org/x/sync/errgroup"
)

// ProbeResult is the outcome of one config probe.
type ProbeResult struct {
	ID     string
	Result *schema.Tree
}

// RawStats is the immutable output of the collection phase and the only
// input of the derivation phase.
type RawStats struct {
	Source      schema.SourceTree
	SourceFiles int // published total used by every ratio
	TestFiles   int
	Counts      pattern.Counts
	Project     *schema.Tree
	Probes      []ProbeResult
	Skipped     []string
}

// Engine runs the registered metrics and probes over one source tree.
type Engine struct {
	source  schema.SourceTree
	filter  fileset.Filter
	tests   fileset.Filter
	metrics []pattern.Metric
	probes  []probe.Probe
	reader  probe.Reader
	workers int
}

// NewEngine creates an engine for the configured project with the built-in
// metrics and probes.
func NewEngine(cfg *contract.Config) *Engine {
	return &Engine{
		source:  cfg.SourceTree(),
		filter:  fileset.Filter{Extension: cfg.Extension},
		tests:   fileset.Filter{Extension: cfg.Extension, Suffix: cfg.TestSuffix},
		metrics: pattern.Builtins(),
		probes:  probe.Builtins(),
		reader:  probe.NewReader(),
		workers: cfg.Workers,
	}
}

// WithProbeReader replaces the config file reader.
func (e *Engine) WithProbeReader(reader probe.Reader) *Engine {
	clone := *e
	clone.reader = reader
	return &clone
}

// Rules lists every registered metric and probe.
func (e *Engine) Rules() []schema.RuleInfo {
	rules := make([]schema.RuleInfo, 0, len(e.metrics)+len(e.probes)+1)
	for _, m := range e.metrics {
		rules = append(rules, m.Info())
	}
	rules = append(rules, schema.RuleInfo{
		Kind:        "probe",
		ID:          schema.SectionProject,
		Mode:        "manifest",
		Description: "Project name, PHP constraint and type",
		Patterns:    []string{probe.ManifestFile},
	})
	for _, p := range e.probes {
		rules = append(rules, p.Info())
	}
	return rules
}

// CollectRawStats is the first phase. It checks preconditions, resolves
// both file sets and publishes the source total, then scans the source set
// and runs the probes concurrently.
func (e *Engine) CollectRawStats(ctx context.Context) (RawStats, error) {
	if err := contract.CheckSourceTree(e.source); err != nil {
		return RawStats{}, err
	}

	sources, err := fileset.Resolve(e.source.RootPath, e.source.SourceSubdir, e.filter)
	if err != nil {
		return RawStats{}, fmt.Errorf("failed to list source files: %w", err)
	}
	tests, err := fileset.Resolve(e.source.RootPath, e.source.TestSubdir, e.tests)
	if err != nil {
		return RawStats{}, fmt.Errorf("failed to list test files: %w", err)
	}

	stats := RawStats{
		Source:      e.source,
		SourceFiles: sources.Len(),
		TestFiles:   tests.Len(),
		Probes:      make([]ProbeResult, len(e.probes)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.workers, 1))

	var scan pattern.ScanResult
	g.Go(func() error {
		var err error
		scan, err = pattern.NewScanner(e.metrics, e.workers).Scan(gctx, sources.Files)
		return err
	})
	g.Go(func() error {
		var err error
		stats.Project, err = probe.Project(gctx, e.reader, e.source.RootPath)
		return err
	})
	for i, p := range e.probes {
		g.Go(func() error {
			result, err := p.Run(gctx, e.reader, e.source.RootPath)
			if err != nil {
				return fmt.Errorf("probe %s: %w", p.ID, err)
			}
			stats.Probes[i] = ProbeResult{ID: p.ID, Result: result}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RawStats{}, err
	}

	stats.Counts = scan.Counts
	stats.Skipped = scan.Skipped
	return stats, nil
}

// Run executes both phases and returns the result tree.
func (e *Engine) Run(ctx context.Context) (*schema.Tree, RawStats, error) {
	stats, err := e.CollectRawStats(ctx)
	if err != nil {
		return nil, RawStats{}, err
	}
	tree, err := Derive(stats)
	if err != nil {
		return nil, stats, err
	}
	return tree, stats, nil
}
