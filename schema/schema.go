// Package schema has models and constants shared by all parts of stylemetrics.
package schema

import "path/filepath"

// SourceTree identifies the project being measured. It is read-only to the engine.
type SourceTree struct {
	RootPath     string // Absolute path to the project root
	SourceSubdir string // Relative source directory, e.g. "src"
	TestSubdir   string // Relative test directory, e.g. "tests"
}

// SourcePath returns the absolute source directory.
func (st SourceTree) SourcePath() string {
	return filepath.Join(st.RootPath, st.SourceSubdir)
}

// TestPath returns the absolute test directory.
func (st SourceTree) TestPath() string {
	return filepath.Join(st.RootPath, st.TestSubdir)
}

// Report is a finished extraction ready for presentation.
type Report struct {
	Tree        *Tree
	Fingerprint string
	Skipped     []string // files that could not be read during the scan
}
