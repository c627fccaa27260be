// Package fileset resolves the ordered file lists that pattern metrics scan.
package fileset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Filter selects files by name.
type Filter struct {
	Extension string // required file extension, e.g. ".php"
	Suffix    string // optional name suffix, e.g. "Test.php"
}

// Match reports whether a base filename passes the filter.
func (f Filter) Match(name string) bool {
	if f.Extension != "" && !strings.HasSuffix(name, f.Extension) {
		return false
	}
	if f.Suffix != "" && !strings.HasSuffix(name, f.Suffix) {
		return false
	}
	return true
}

// FileSet is an ordered list of absolute file paths under Dir.
type FileSet struct {
	Dir   string
	Files []string
}

// Len returns the cardinality of the set.
func (s FileSet) Len() int {
	return len(s.Files)
}

// Resolve walks root/subdir recursively and returns every regular file that
// passes the filter, sorted by path. A missing directory yields an empty set.
func Resolve(root, subdir string, filter Filter) (FileSet, error) {
	dir := filepath.Join(root, subdir)
	set := FileSet{Dir: dir}

	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return set, nil
	}
	if err != nil {
		return set, err
	}
	if !info.IsDir() {
		return set, nil
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("cannot list %s: %w", dir, err)
			}
			// Unreadable subtrees are left out rather than failing the run
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		if filter.Match(d.Name()) {
			set.Files = append(set.Files, path)
		}
		return nil
	})
	if err != nil {
		return set, err
	}

	slices.Sort(set.Files)
	return set, nil
}

// isRegularFile accepts regular files and symlinks that resolve to one.
// Symlinked directories are not descended into.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
