package pattern

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSources(t *testing.T, contents map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	var files []string
	for name, body := range contents {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		files = append(files, p)
	}
	return files
}

func TestScannerSumsAcrossFiles(t *testing.T) {
	files := writeSources(t, map[string]string{
		"a.php": "<?php\ndeclare(strict_types=1);\nuse A\\B;\n$x = [1];\n",
		"b.php": "<?php\n$y = array(1);\n",
		"c.php": "<?php\ndeclare(strict_types=1);\n$z = \\count([]);\n",
	})

	for _, workers := range []int{1, 2, 8} {
		res, err := NewScanner(Builtins(), workers).Scan(context.Background(), files)
		require.NoError(t, err)
		assert.Empty(t, res.Skipped)
		assert.Equal(t, 2, res.Counts[StrictTypes])
		assert.Equal(t, 1, res.Counts[OldArraySyntax])
		assert.Equal(t, 2, res.Counts[NewArraySyntax])
		assert.Equal(t, 1, res.Counts[FQNFunctions])
		assert.Equal(t, 1, res.Counts[UseStatements])
		assert.Equal(t, 1, res.Counts[FilesWithUse])
	}
}

func TestScannerEmptyFileList(t *testing.T) {
	res, err := NewScanner(Builtins(), 4).Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Counts, len(Builtins()))
	for id, n := range res.Counts {
		assert.Zero(t, n, id)
	}
}

func TestScannerSkipsUnreadableFiles(t *testing.T) {
	files := writeSources(t, map[string]string{
		"ok.php": "declare(strict_types=1);",
	})
	missing := filepath.Join(filepath.Dir(files[0]), "vanished.php")
	files = append(files, missing)

	res, err := NewScanner(Builtins(), 2).Scan(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, res.Skipped)
	assert.Equal(t, 1, res.Counts[StrictTypes])
}

func TestScannerCustomReader(t *testing.T) {
	reader := func(path string) ([]byte, error) {
		if path == "bad" {
			return nil, errors.New("permission denied")
		}
		return []byte("array(array("), nil
	}

	scanner := NewScanner(Builtins(), 3).WithReader(reader)
	res, err := scanner.Scan(context.Background(), []string{"one", "bad", "two"})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Counts[OldArraySyntax])
	assert.Equal(t, []string{"bad"}, res.Skipped)
}

func TestScannerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(Builtins(), 2).WithReader(func(string) ([]byte, error) {
		return []byte("x"), nil
	}).Scan(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
}
