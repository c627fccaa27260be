package core

import (
	"errors"

	"github.com/huangsam/stylemetrics/core/algo"
	"github.com/huangsam/stylemetrics/internal/pattern"
	"github.com/huangsam/stylemetrics/schema"
)

// ErrTotalNotPublished is returned when a ratio step runs before the file
// totals are part of the tree.
var ErrTotalNotPublished = errors.New("file totals must be derived before ratio metrics")

// step extends a partial result tree using the collected statistics.
type step func(tree *schema.Tree, stats RawStats) (*schema.Tree, error)

// ReportBuilder threads a result tree through the derivation steps.
// Each step receives the tree produced so far and returns an extended copy.
type ReportBuilder struct {
	stats RawStats
	tree  *schema.Tree
	err   error
}

// NewReportBuilder is the starting point for deriving a result tree.
func NewReportBuilder(stats RawStats) *ReportBuilder {
	return &ReportBuilder{stats: stats, tree: schema.NewTree()}
}

func (b *ReportBuilder) apply(s step) *ReportBuilder {
	if b.err != nil {
		return b
	}
	b.tree, b.err = s(b.tree, b.stats)
	return b
}

// Project adds the manifest metadata.
func (b *ReportBuilder) Project() *ReportBuilder { return b.apply(deriveProject) }

// Files publishes the file totals consumed by every ratio step.
func (b *ReportBuilder) Files() *ReportBuilder { return b.apply(deriveFiles) }

// StrictTypes adds strict declaration coverage.
func (b *ReportBuilder) StrictTypes() *ReportBuilder { return b.apply(deriveStrictTypes) }

// ArraySyntax adds the long versus short array style ratio.
func (b *ReportBuilder) ArraySyntax() *ReportBuilder { return b.apply(deriveArraySyntax) }

// TypeSystem adds typed property and fully-qualified call usage.
func (b *ReportBuilder) TypeSystem() *ReportBuilder { return b.apply(deriveTypeSystem) }

// Imports adds use-statement usage.
func (b *ReportBuilder) Imports() *ReportBuilder { return b.apply(deriveImports) }

// Probes adds every config probe result in registration order.
func (b *ReportBuilder) Probes() *ReportBuilder { return b.apply(deriveProbes) }

// Build returns the finished tree or the first step error.
func (b *ReportBuilder) Build() (*schema.Tree, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tree, nil
}

// Derive is the second phase: a pure function of the collected statistics.
func Derive(stats RawStats) (*schema.Tree, error) {
	return NewReportBuilder(stats).
		Project().
		Files().
		StrictTypes().
		ArraySyntax().
		TypeSystem().
		Imports().
		Probes().
		Build()
}

// publishedTotal reads the source file total from the files section.
func publishedTotal(tree *schema.Tree) (int, error) {
	files, ok := tree.Sub(schema.SectionFiles)
	if !ok {
		return 0, ErrTotalNotPublished
	}
	total, ok := files.Int(schema.KeyPHPFiles)
	if !ok {
		return 0, ErrTotalNotPublished
	}
	return total, nil
}

func deriveProject(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	project := stats.Project
	if project == nil {
		project = schema.NewTree(schema.E("composer_json", schema.ManifestMissing))
	}
	return tree.With(schema.SectionProject, project), nil
}

func deriveFiles(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	return tree.With(schema.SectionFiles, schema.NewTree(
		schema.E(schema.KeyPHPFiles, stats.SourceFiles),
		schema.E(schema.KeyTestFiles, stats.TestFiles),
	)), nil
}

func deriveStrictTypes(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	total, err := publishedTotal(tree)
	if err != nil {
		return nil, err
	}
	count := stats.Counts[pattern.StrictTypes]

	pct, ok := algo.Percent(count, total)
	if !ok {
		return tree.With(schema.SectionStrictTypes, schema.NewTree(
			schema.E(schema.KeyError, schema.ErrNoPHPFiles),
		)), nil
	}
	return tree.With(schema.SectionStrictTypes, schema.NewTree(
		schema.E("total_files", total),
		schema.E("with_strict_types", count),
		schema.E("coverage_percent", pct),
		schema.E(schema.KeyConclusion, algo.Equality(count, total)),
	)), nil
}

func deriveArraySyntax(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	oldCount := stats.Counts[pattern.OldArraySyntax]
	newCount := stats.Counts[pattern.NewArraySyntax]
	section := schema.NewTree(
		schema.E("old_syntax_count", oldCount),
		schema.E("new_syntax_count", newCount),
	)

	pct, ok := algo.Percent(newCount, oldCount+newCount)
	if !ok {
		return tree.With(schema.SectionArraySyntax, section.With(schema.KeyError, schema.ErrNoArrays)), nil
	}
	section = section.
		With("short_ratio_percent", pct).
		With(schema.KeyConclusion, algo.Dominance(newCount, oldCount))
	return tree.With(schema.SectionArraySyntax, section), nil
}

func deriveTypeSystem(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	total, err := publishedTotal(tree)
	if err != nil {
		return nil, err
	}
	fqn := stats.Counts[pattern.FQNFunctions]
	section := schema.NewTree(
		schema.E("typed_properties_count", stats.Counts[pattern.TypedProperties]),
		schema.E("fqn_function_files", fqn),
	)

	pct, ok := algo.Percent(fqn, total)
	if !ok {
		return tree.With(schema.SectionTypeSystem, section.With(schema.KeyError, schema.ErrNoPHPFiles)), nil
	}
	section = section.
		With("fqn_ratio_percent", pct).
		With(schema.KeyConclusion, algo.Adoption(fqn, total))
	return tree.With(schema.SectionTypeSystem, section), nil
}

func deriveImports(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	total, err := publishedTotal(tree)
	if err != nil {
		return nil, err
	}
	withUse := stats.Counts[pattern.FilesWithUse]
	section := schema.NewTree(
		schema.E("total_use_statements", stats.Counts[pattern.UseStatements]),
		schema.E("files_with_use", withUse),
	)

	pct, ok := algo.Percent(withUse, total)
	if !ok {
		return tree.With(schema.SectionImports, section.With(schema.KeyError, schema.ErrNoPHPFiles)), nil
	}
	return tree.With(schema.SectionImports, section.With("files_with_use_percent", pct)), nil
}

func deriveProbes(tree *schema.Tree, stats RawStats) (*schema.Tree, error) {
	for _, p := range stats.Probes {
		result := p.Result
		if result == nil {
			result = schema.NewTree(schema.E(schema.KeyFound, false))
		}
		tree = tree.With(p.ID, result)
	}
	return tree, nil
}
