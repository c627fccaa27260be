package fileset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("<?php\n"), 0o644))
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"src/b.php",
		"src/a.php",
		"src/nested/deep/c.php",
		"src/readme.md",
		"src/style.phpx",
		"tests/FooTest.php",
		"tests/Unit/BarTest.php",
		"tests/helpers.php",
	)

	tests := []struct {
		name   string
		subdir string
		filter Filter
		want   []string
	}{
		{
			name:   "source php files sorted",
			subdir: "src",
			filter: Filter{Extension: ".php"},
			want:   []string{"src/a.php", "src/b.php", "src/nested/deep/c.php"},
		},
		{
			name:   "test files by suffix",
			subdir: "tests",
			filter: Filter{Extension: ".php", Suffix: "Test.php"},
			want:   []string{"tests/FooTest.php", "tests/Unit/BarTest.php"},
		},
		{
			name:   "missing directory is empty",
			subdir: "lib",
			filter: Filter{Extension: ".php"},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := Resolve(root, tt.subdir, tt.filter)
			require.NoError(t, err)

			var got []string
			for _, f := range set.Files {
				rel, err := filepath.Rel(root, f)
				require.NoError(t, err)
				got = append(got, filepath.ToSlash(rel))
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), set.Len())
		})
	}
}

func TestResolveSubdirIsFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src")

	set, err := Resolve(root, "src", Filter{Extension: ".php"})
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestResolveDeterministic(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "src/z.php", "src/m/a.php", "src/a.php")

	first, err := Resolve(root, "src", Filter{Extension: ".php"})
	require.NoError(t, err)
	second, err := Resolve(root, "src", Filter{Extension: ".php"})
	require.NoError(t, err)
	assert.Equal(t, first.Files, second.Files)
}

func lockDir(t *testing.T, dir string, mode os.FileMode) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	require.NoError(t, os.Chmod(dir, mode))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })
}

func TestResolveUnreadable(t *testing.T) {
	t.Run("root of the walk fails", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, "src/A.php")
		lockDir(t, filepath.Join(root, "src"), 0o311)

		_, err := Resolve(root, "src", Filter{Extension: ".php"})
		assert.ErrorContains(t, err, filepath.Join(root, "src"))
	})

	t.Run("nested subtree is skipped", func(t *testing.T) {
		root := t.TempDir()
		writeFiles(t, root, "src/A.php", "src/locked/B.php")
		lockDir(t, filepath.Join(root, "src", "locked"), 0o311)

		set, err := Resolve(root, "src", Filter{Extension: ".php"})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "src", "A.php")}, set.Files)
	})
}

func TestResolveSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "shared/Real.php", "shared/dir/Inner.php")
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	links := []struct {
		name   string
		target string
	}{
		{"Linked.php", filepath.Join(root, "shared", "Real.php")},
		{"Dangling.php", filepath.Join(root, "shared", "Gone.php")},
		{"Dir.php", filepath.Join(root, "shared", "dir")},
	}
	for _, l := range links {
		if err := os.Symlink(l.target, filepath.Join(src, l.name)); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
	}

	set, err := Resolve(root, "src", Filter{Extension: ".php"})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(src, "Linked.php")}, set.Files)
}

func TestFilterMatch(t *testing.T) {
	f := Filter{Extension: ".php", Suffix: "Test.php"}
	assert.True(t, f.Match("UserTest.php"))
	assert.False(t, f.Match("User.php"))
	assert.False(t, f.Match("UserTest.PHP"), "matching is case-sensitive")
	assert.True(t, Filter{}.Match("anything"))
}
