package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for the run sink.
	DatabaseBackend string

	// CountingMode represents how a pattern metric turns matches into a count.
	CountingMode string
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	YAMLOut    OutputMode = "yaml"
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All sink backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// All counting modes supported.
const (
	OccurrenceCount   CountingMode = "occurrence-count"    // every non-overlapping match counts
	MatchingFileCount CountingMode = "matching-file-count" // a file counts at most once
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	YAMLOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid sink backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Top-level section keys of the result tree, in emission order.
const (
	SectionProject     = "project"
	SectionFiles       = "files"
	SectionStrictTypes = "strict_types"
	SectionArraySyntax = "array_syntax"
	SectionTypeSystem  = "type_system"
	SectionImports     = "imports"
	SectionPHPStan     = "phpstan"
	SectionCSFixer     = "php_cs_fixer"
)

// Shared field keys.
const (
	KeyError      = "error"
	KeyConclusion = "conclusion"
	KeyFound      = "found"
	KeyFile       = "file"
	KeyPHPFiles   = "php_files"
	KeyTestFiles  = "test_files"
)

// Error sentinels for zero-denominator ratios.
const (
	ErrNoPHPFiles   = "no_php_files"
	ErrNoArrays     = "no_arrays_found"
	ManifestMissing = "not_found"
	UnknownValue    = "unknown"
)

// Conclusion labels.
const (
	FullyAdopted     = "fully adopted"
	PartiallyAdopted = "partially adopted"
	MostlyShort      = "mostly short syntax"
	Mixed            = "mixed"
	ActivelyUsed     = "actively used"
	LimitedUse       = "limited use"
)
