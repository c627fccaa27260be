package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/stylemetrics/internal/contract"
	"github.com/huangsam/stylemetrics/internal/parquet"
	"github.com/huangsam/stylemetrics/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteReportResults outputs the report, dispatching based on the output format configured.
func WriteReportResults(report schema.Report, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.YAMLOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			content, err := MarshalYAML(report.Tree)
			if err != nil {
				return err
			}
			_, err = w.Write(content)
			return err
		}, "Wrote YAML")
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report.Tree)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportCSV(w, report.Tree)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteMetrics(w, schema.Flatten(report.Tree))
		}, "Wrote Parquet")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTable(report, cfg, duration, w)
		}, "Wrote table")
	}
}

// writeReportCSV writes one row per leaf keyed by its dotted path.
func writeReportCSV(w io.Writer, tree *schema.Tree) error {
	return writeCSVWithHeader(w, []string{"path", "kind", "value"}, func(cw *csv.Writer) error {
		for _, v := range schema.Flatten(tree) {
			if err := cw.Write([]string{v.Path, v.Kind, v.Value}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeReportTable renders one key/value table per top-level section.
func writeReportTable(report schema.Report, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	maxWidth := getMaxTableValueWidth(cfg)

	for _, section := range report.Tree.Entries() {
		sub, ok := section.Value.(*schema.Tree)
		if !ok {
			sub = schema.NewTree(section)
		}

		title := section.Key
		if cfg.UseEmojis {
			title = sectionEmoji(section.Key) + " " + title
		}
		if _, err := fmt.Fprintf(writer, "\n%s\n", title); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Key", "Value"})
		table.Configure(func(tc *tablewriter.Config) {
			tc.Row.Alignment.Global = tw.AlignLeft
		})

		var data [][]string
		sub.Walk(func(path string, value any) {
			data = append(data, []string{path, formatCell(path, value, cfg, maxWidth)})
		})
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Fingerprint: %s\n", report.Fingerprint); err != nil {
		return err
	}
	if len(report.Skipped) > 0 {
		if _, err := fmt.Fprintf(writer, "Skipped %d unreadable file(s)\n", len(report.Skipped)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(writer, "Extraction completed in %v with %d workers. Sink backend: %s\n", duration, cfg.Workers, cfg.SinkBackend)
	return err
}

// formatCell renders one leaf for the console.
func formatCell(key string, value any, cfg *contract.Config, maxWidth int) string {
	switch v := value.(type) {
	case bool:
		if cfg.UseEmojis {
			if v {
				return "✅"
			}
			return "❌"
		}
		return strconv.FormatBool(v)
	case schema.Percent:
		return strconv.FormatFloat(float64(v), 'f', cfg.Precision, 64) + "%"
	case string:
		text := contract.TruncateValue(v, maxWidth)
		if cfg.UseColors && isLabelKey(key) {
			return contract.GetColorLabel(text)
		}
		return text
	default:
		return schema.FormatScalar(v)
	}
}

// isLabelKey reports whether the leaf carries a conclusion or a sentinel.
func isLabelKey(key string) bool {
	switch key {
	case schema.KeyConclusion, schema.KeyError, "composer_json":
		return true
	}
	return false
}

func sectionEmoji(section string) string {
	switch section {
	case schema.SectionProject:
		return "📦"
	case schema.SectionFiles:
		return "📁"
	case schema.SectionPHPStan, schema.SectionCSFixer:
		return "🔧"
	default:
		return "📊"
	}
}
