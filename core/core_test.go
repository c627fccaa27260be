package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/iosink"
	"github.com/huangsam/stylemetrics/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func extractConfig(t *testing.T, root string) *contract.Config {
	cfg := testConfig(root)
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "out.json")
	cfg.ReportFile = filepath.Join(t.TempDir(), "metrics_output.yaml")
	cfg.SinkBackend = schema.SQLiteBackend
	cfg.S3.Bucket = "reports"
	return cfg
}

// TestExecuteExtract tests the main extraction entry point with every output wired.
func TestExecuteExtract(t *testing.T) {
	root := writeProject(t, map[string]string{
		"src/A.php": "<?php\ndeclare(strict_types=1);\n",
		"src/B.php": "<?php\n$a = [1, 2];\n",
	})
	cfg := extractConfig(t, root)
	ctx := WithSuppressHeader(context.Background())

	store := &iosink.MockRunStore{}
	store.On("RecordRun", mock.MatchedBy(func(run schema.RunRecord) bool {
		return run.ProjectRoot == root && run.TotalFiles == 2 && run.Fingerprint != "" && run.Report != nil
	}), mock.AnythingOfType("[]schema.FlatValue")).Return(int64(1), nil)
	mgr := &iosink.MockSinkManager{}
	mgr.On("GetRunStore").Return(store)

	uploader := &iosink.MockUploader{}
	uploader.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return filepath.Dir(key) == filepath.Base(root) && filepath.Ext(key) == ".yaml"
	}), mock.Anything).Return(nil)

	require.NoError(t, ExecuteExtract(ctx, cfg, mgr, uploader))

	for _, path := range []string{cfg.OutputFile, cfg.ReportFile} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Greater(t, info.Size(), int64(0))
	}
	mgr.AssertExpectations(t)
	store.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

// TestExecuteExtractSinkFailures tests that sink and upload failures never fail a run.
func TestExecuteExtractSinkFailures(t *testing.T) {
	root := writeProject(t, map[string]string{"src/A.php": "<?php\n"})
	cfg := extractConfig(t, root)
	ctx := WithSuppressHeader(context.Background())

	store := &iosink.MockRunStore{}
	store.On("RecordRun", mock.Anything, mock.Anything).Return(int64(0), errors.New("database is locked"))
	mgr := &iosink.MockSinkManager{}
	mgr.On("GetRunStore").Return(store)
	uploader := &iosink.MockUploader{}
	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	assert.NoError(t, ExecuteExtract(ctx, cfg, mgr, uploader))
	store.AssertExpectations(t)
	uploader.AssertExpectations(t)
}

// TestExecuteExtractDisabledOutputs tests a run with no sink, no upload and no report file.
func TestExecuteExtractDisabledOutputs(t *testing.T) {
	root := writeProject(t, map[string]string{"src/A.php": "<?php\n"})
	cfg := extractConfig(t, root)
	cfg.ReportFile = ""

	mgr := &iosink.MockSinkManager{}
	mgr.On("GetRunStore").Return(nil)

	require.NoError(t, ExecuteExtract(WithSuppressHeader(context.Background()), cfg, mgr, nil))
	mgr.AssertExpectations(t)
}

// TestExecuteExtractMissingRoot tests that precondition failures are returned.
func TestExecuteExtractMissingRoot(t *testing.T) {
	cfg := extractConfig(t, "/nonexistent/project")
	mgr := &iosink.MockSinkManager{}

	err := ExecuteExtract(WithSuppressHeader(context.Background()), cfg, mgr, nil)
	assert.Error(t, err)
	mgr.AssertNotCalled(t, "GetRunStore")
}

func TestExtractFingerprintIsStable(t *testing.T) {
	root := writeProject(t, map[string]string{"src/A.php": "<?php\n$a = array();\n"})

	first, _, err := Extract(context.Background(), testConfig(root))
	require.NoError(t, err)
	second, _, err := Extract(context.Background(), testConfig(root))
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
}

func TestReportObjectKey(t *testing.T) {
	assert.Equal(t, "app/abc.yaml", ReportObjectKey("/work/app", "abc"))
}
