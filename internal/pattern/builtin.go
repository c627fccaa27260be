package pattern

import (
	"regexp"

	"github.com/huangsam/stylemetrics/schema"
)

// Built-in metric IDs.
const (
	StrictTypes     = "strict_types"
	OldArraySyntax  = "old_array_syntax"
	NewArraySyntax  = "new_array_syntax"
	TypedProperties = "typed_properties"
	FQNFunctions    = "fqn_functions"
	UseStatements   = "use_statements"
	FilesWithUse    = "files_with_use"
)

var (
	typedPropertyRe = regexp.MustCompile(`(protected|private|public)\s+(string|int|bool|array|object|float|\\?[A-Z][a-zA-Z0-9\\]+)\s+\$`)
	fqnFunctionRe   = regexp.MustCompile(`\\(count|is_|array_)`)
	useStatementRe  = regexp.MustCompile(`(?m)^use `)
	bracketLineRe   = regexp.MustCompile(`(?m)^.*\[`) // at most one match per line
)

// Builtins returns the metrics measured on every run, in registration order.
func Builtins() []Metric {
	return []Metric{
		{
			ID:          StrictTypes,
			Description: "Files declaring strict types",
			Patterns:    []*regexp.Regexp{Literal("declare(strict_types=1)")},
			Mode:        schema.MatchingFileCount,
		},
		{
			ID:          OldArraySyntax,
			Description: "Long-form array( literals",
			Patterns:    []*regexp.Regexp{Literal("array(")},
			Mode:        schema.OccurrenceCount,
		},
		{
			ID:          NewArraySyntax,
			Description: "Non-comment lines containing a square bracket",
			Patterns:    []*regexp.Regexp{bracketLineRe},
			Mode:        schema.OccurrenceCount,
			Exclude:     CommentLine,
		},
		{
			ID:          TypedProperties,
			Description: "Typed property declarations",
			Patterns:    []*regexp.Regexp{typedPropertyRe},
			Mode:        schema.OccurrenceCount,
		},
		{
			ID:          FQNFunctions,
			Description: "Files calling fully-qualified global functions",
			Patterns:    []*regexp.Regexp{fqnFunctionRe},
			Mode:        schema.MatchingFileCount,
		},
		{
			ID:          UseStatements,
			Description: "Top-level use statements",
			Patterns:    []*regexp.Regexp{useStatementRe},
			Mode:        schema.OccurrenceCount,
		},
		{
			ID:          FilesWithUse,
			Description: "Files with at least one use statement",
			Patterns:    []*regexp.Regexp{useStatementRe},
			Mode:        schema.MatchingFileCount,
		},
	}
}
