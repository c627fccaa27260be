// Package core has the metric extraction engine and its orchestration.
package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/outwriter"
	"github.com/huangsam/stylemetrics/schema"
)

// Extract runs the engine against the configured project and fingerprints
// the resulting tree.
func Extract(ctx context.Context, cfg *contract.Config) (schema.Report, RawStats, error) {
	tree, stats, err := NewEngine(cfg).Run(ctx)
	if err != nil {
		return schema.Report{}, RawStats{}, err
	}
	fingerprint, err := outwriter.Fingerprint(tree)
	if err != nil {
		return schema.Report{}, RawStats{}, err
	}
	return schema.Report{Tree: tree, Fingerprint: fingerprint, Skipped: stats.Skipped}, stats, nil
}

// ExecuteExtract runs one extraction and hands the result to every
// configured output: stdout or --output-file, the YAML report file, the
// run sink and object storage.
func ExecuteExtract(ctx context.Context, cfg *contract.Config, mgr contract.SinkManager, uploader contract.ReportUploader) error {
	start := time.Now()
	if !shouldSuppressHeader(ctx) {
		logExtractHeader(cfg)
	}

	report, stats, err := Extract(ctx, cfg)
	if err != nil {
		return err
	}
	if len(report.Skipped) > 0 {
		contract.LogWarn("Skipped unreadable files", fmt.Errorf("%d file(s), first: %s", len(report.Skipped), report.Skipped[0]))
	}

	ow := outwriter.NewOutWriter()
	if err := ow.WriteReport(report, cfg, time.Since(start)); err != nil {
		return err
	}
	if cfg.ReportFile != "" {
		if err := ow.WriteReportFile(cfg.ReportFile, report.Tree); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
	}

	RecordRun(cfg, mgr, report, stats, start, time.Now())
	uploadReport(ctx, cfg, uploader, report)
	return nil
}

// logExtractHeader prints what is about to be measured.
func logExtractHeader(cfg *contract.Config) {
	prefix := ""
	if cfg.UseEmojis {
		prefix = "🔍 "
	}
	contract.LogInfo("%sExtracting style metrics from %s (source: %s, tests: %s)", prefix, cfg.RootPath, cfg.SourceDir, cfg.TestDir)
}

// RecordRun stores the finished report in the run sink. Failures are logged
// and never fail the extraction.
func RecordRun(cfg *contract.Config, mgr contract.SinkManager, report schema.Report, stats RawStats, start, end time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetRunStore()
	if store == nil {
		return
	}

	yamlReport, err := outwriter.MarshalYAML(report.Tree)
	if err != nil {
		contract.LogWarn("Run tracking failed to serialize report", err)
		return
	}
	body := string(yamlReport)
	duration := int32(end.Sub(start).Milliseconds())
	run := schema.RunRecord{
		ProjectRoot:   cfg.RootPath,
		SourceDir:     cfg.SourceDir,
		StartTime:     start,
		EndTime:       &end,
		RunDurationMs: &duration,
		TotalFiles:    int32(stats.SourceFiles),
		Fingerprint:   report.Fingerprint,
		Report:        &body,
	}
	if _, err := store.RecordRun(run, schema.Flatten(report.Tree)); err != nil {
		contract.LogWarn("Run tracking failed", err)
	}
}

// ReportObjectKey names the uploaded report. Identical reports of the same
// project share a key.
func ReportObjectKey(rootPath, fingerprint string) string {
	return fmt.Sprintf("%s/%s.yaml", filepath.Base(rootPath), fingerprint)
}

// uploadReport publishes the YAML report to object storage when configured.
func uploadReport(ctx context.Context, cfg *contract.Config, uploader contract.ReportUploader, report schema.Report) {
	if uploader == nil {
		return
	}
	content, err := outwriter.MarshalYAML(report.Tree)
	if err != nil {
		contract.LogWarn("Report upload failed to serialize report", err)
		return
	}
	key := ReportObjectKey(cfg.RootPath, report.Fingerprint)
	if err := uploader.Upload(ctx, key, content); err != nil {
		contract.LogWarn("Report upload failed", err)
		return
	}
	contract.LogInfo("Uploaded report to s3://%s/%s", cfg.S3.Bucket, key)
}
